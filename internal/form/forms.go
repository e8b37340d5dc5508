package form

// Field names shared across the portal forms. The names double as the JSON
// keys the backend expects, so they must match the wire contract exactly.
const (
	// AE Sales Info section (initiation form)
	FieldSalesPerson     = "salesPerson"
	FieldRegion          = "region"
	FieldEndCustomerType = "endCustomerType"
	FieldProcessType     = "processType"

	// Customer Info section (initiation form)
	FieldCompanyName  = "companyName"
	FieldSpoc         = "spoc"
	FieldSpocManager  = "spocManager"
	FieldDegree       = "degree"
	FieldMobileNumber = "mobileNumber"

	// Partner Info section, required only for partner engagements
	FieldPartnerCompanyName  = "partnerCompanyName"
	FieldPartnerSpoc         = "partnerSpoc"
	FieldPartnerSpocEmail    = "partnerSpocEmail"
	FieldPartnerDesignation  = "partnerDesignation"
	FieldPartnerMobileNumber = "partnerMobileNumber"

	// Usecase Details section (initiation form)
	FieldUsecase = "usecase"
	FieldBrief   = "brief"

	// POC code form
	FieldPocID           = "pocId"
	FieldPocName         = "pocName"
	FieldEntityType      = "entityType"
	FieldEntityName      = "entityName"
	FieldDescription     = "description"
	FieldAssignedTo      = "assignedTo"
	FieldCreatedBy       = "createdBy"
	FieldStartDate       = "startDate"
	FieldEndDate         = "endDate"
	FieldRemark          = "remark"
	FieldIsBillable      = "isBillable"
	FieldPocType         = "pocType"
	FieldSpocEmail       = "spocEmail"
	FieldSpocDesignation = "spocDesignation"
	FieldTags            = "tags"

	// Edit-only fields
	FieldActualStartDate  = "actualStartDate"
	FieldActualEndDate    = "actualEndDate"
	FieldEstimatedEfforts = "estimatedEfforts"
	FieldTotalEfforts     = "totalEfforts"
	FieldVarianceDays     = "varianceDays"
	FieldApprovedBy       = "approvedBy"
	FieldStatus           = "status"
)

// EntityPartner is the end-customer-type value that gates the partner block.
const EntityPartner = "Partner"

// Kind identifies which of the portal's forms a State belongs to.
type Kind string

const (
	KindInitiation Kind = "initiation" // POST /poc/save
	KindPOCCode    Kind = "poc-code"   // POST /poc/savepocprjid
	KindEdit       Kind = "edit"       // PUT /poc/update/{pocId}
)

// Field pairs a field name with its display label and validation rule.
// A nil Rule means the field is always valid (free text, optional).
type Field struct {
	Name  string
	Label string
	Rule  Rule
}

// Definition is the fixed field list of one form. The three portal forms
// share the validator machinery and differ only in this configuration.
type Definition struct {
	Kind   Kind
	Fields []Field
}

// Field returns the definition entry for name, or nil if the form doesn't
// carry that field.
func (d *Definition) Field(name string) *Field {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// partnerSelected gates the partner-info block on the raw selector value.
func partnerSelected(s *State) bool {
	return s.Get(FieldEndCustomerType) == EntityPartner
}

// Initiation returns the POC initiation form: sales info, customer info, the
// conditional partner block, and use-case details. Mobile numbers are
// optional and format-checked only when present.
func Initiation() *Definition {
	return &Definition{
		Kind: KindInitiation,
		Fields: []Field{
			{FieldSalesPerson, "Sales Person Name", Required("Required")},
			{FieldRegion, "Region", Required("Required")},
			{FieldEndCustomerType, "End Customer Type", Required("Required")},
			{FieldProcessType, "Process Type", Required("Required")},

			{FieldCompanyName, "Company Name", Required("Required")},
			{FieldSpoc, "SPOC", Required("Required")},
			{FieldSpocManager, "SPOC Manager", Required("Required")},
			{FieldDegree, "Degree", Required("Required")},
			{FieldMobileNumber, "Mobile Number", Phone("Must be 10 digits")},

			{FieldPartnerCompanyName, "Partner Company Name", When(partnerSelected, Required("Required"))},
			{FieldPartnerSpoc, "Partner SPOC", When(partnerSelected, Required("Required"))},
			{FieldPartnerSpocEmail, "Partner SPOC Email", When(partnerSelected, All(Required("Required"), Email("Invalid email")))},
			{FieldPartnerDesignation, "Partner Designation", When(partnerSelected, Required("Required"))},
			{FieldPartnerMobileNumber, "Partner Mobile Number", Phone("Must be 10 digits")},

			{FieldUsecase, "Usecase", Required("Required")},
			{FieldBrief, "Brief", Required("Required")},
		},
	}
}

// POCCode returns the POC code creation form.
func POCCode() *Definition {
	return &Definition{
		Kind:   KindPOCCode,
		Fields: codeFields(),
	}
}

// Edit returns the POC code edit form: the creation fields plus the
// tracking fields that only exist once a record is being maintained.
func Edit() *Definition {
	fields := codeFields()
	fields = append(fields,
		Field{FieldActualStartDate, "Actual Start Date", nil},
		Field{FieldActualEndDate, "Actual End Date", nil},
		Field{FieldEstimatedEfforts, "Estimated Efforts", nil},
		Field{FieldTotalEfforts, "Total Efforts", nil},
		Field{FieldVarianceDays, "Variance Days", nil},
		Field{FieldApprovedBy, "Approved By", nil},
		Field{FieldStatus, "Status", Required("Status is required")},
	)
	return &Definition{Kind: KindEdit, Fields: fields}
}

// codeFields is the field list shared by the creation and edit forms.
func codeFields() []Field {
	return []Field{
		{FieldPocID, "POC, Project ID", Required("POC/Project ID is required")},
		{FieldPocName, "POC, Project Name", Required("POC/Project Name is required")},
		{FieldEntityType, "Partner, Client, Internal", Required("Entity Type is required")},
		{FieldEntityName, "Name of Partner, Client, Internal", Required("Entity Name is required")},
		{FieldSalesPerson, "Sales Person", Required("Sales Person is required")},
		{FieldDescription, "Description", nil},
		{FieldAssignedTo, "Assigned To", Required("Assigned To is required")},
		{FieldCreatedBy, "Created By", Required("Created By is required")},
		{FieldStartDate, "Start Date", Required("Start Date is required")},
		{FieldEndDate, "End Date", Required("End Date is required")},
		{FieldRemark, "Remark", nil},
		{FieldRegion, "Region", Required("Region is required")},
		{FieldIsBillable, "Is Billable", Required("Billable status is required")},
		{FieldPocType, "POC Type", Required("POC Type is required")},
		{FieldSpocEmail, "SPOC Email Address", Email("Invalid email")},
		{FieldSpocDesignation, "SPOC Designation", nil},
		{FieldTags, "Tags", TagSet("At least one tag is required")},
	}
}
