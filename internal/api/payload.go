package api

import (
	"strconv"
	"strings"

	"github.com/bhujbal-nitin/poc-portal/internal/form"
)

// InitiationPayload serializes the initiation form into the shape
// POST /poc/save expects. The backend takes the sales person under "spName";
// every other field keeps its form name. The partner block is attached only
// for partner engagements.
func InitiationPayload(values map[string]string) map[string]any {
	payload := map[string]any{
		"spName":          values[form.FieldSalesPerson],
		"region":          values[form.FieldRegion],
		"endCustomerType": values[form.FieldEndCustomerType],
		"processType":     values[form.FieldProcessType],
		"companyName":     values[form.FieldCompanyName],
		"spoc":            values[form.FieldSpoc],
		"spocManager":     values[form.FieldSpocManager],
		"degree":          values[form.FieldDegree],
		"mobileNumber":    values[form.FieldMobileNumber],
		"usecase":         values[form.FieldUsecase],
		"brief":           values[form.FieldBrief],
	}

	if values[form.FieldEndCustomerType] == form.EntityPartner {
		payload["partnerCompanyName"] = values[form.FieldPartnerCompanyName]
		payload["partnerSpoc"] = values[form.FieldPartnerSpoc]
		payload["partnerSpocEmail"] = values[form.FieldPartnerSpocEmail]
		payload["partnerDesignation"] = values[form.FieldPartnerDesignation]
		payload["partnerMobileNumber"] = values[form.FieldPartnerMobileNumber]
	}

	return payload
}

// CodeRecord serializes the POC-code creation or edit form into a record for
// POST /poc/savepocprjid or PUT /poc/update/{pocId}. Efforts fields arrive
// as free text and default to 0 when not numeric; billable travels as a
// boolean derived from the Yes/No selector.
func CodeRecord(values map[string]string) POCRecord {
	return POCRecord{
		PocID:            values[form.FieldPocID],
		PocName:          values[form.FieldPocName],
		EntityType:       values[form.FieldEntityType],
		EntityName:       values[form.FieldEntityName],
		SalesPerson:      values[form.FieldSalesPerson],
		Description:      values[form.FieldDescription],
		AssignedTo:       values[form.FieldAssignedTo],
		CreatedBy:        values[form.FieldCreatedBy],
		StartDate:        values[form.FieldStartDate],
		EndDate:          values[form.FieldEndDate],
		ActualStartDate:  values[form.FieldActualStartDate],
		ActualEndDate:    values[form.FieldActualEndDate],
		EstimatedEfforts: atoiOrZero(values[form.FieldEstimatedEfforts]),
		TotalEfforts:     atoiOrZero(values[form.FieldTotalEfforts]),
		VarianceDays:     atoiOrZero(values[form.FieldVarianceDays]),
		ApprovedBy:       values[form.FieldApprovedBy],
		Remark:           values[form.FieldRemark],
		Region:           values[form.FieldRegion],
		IsBillable:       values[form.FieldIsBillable] == "Yes",
		PocType:          values[form.FieldPocType],
		SpocEmail:        values[form.FieldSpocEmail],
		SpocDesignation:  values[form.FieldSpocDesignation],
		Tags:             values[form.FieldTags],
		Status:           values[form.FieldStatus],
	}
}

// RecordValues flattens a record back into form values, used to pre-populate
// the edit form. Date timestamps are trimmed to their date part; billable
// maps back onto the Yes/No selector; a missing status defaults to Draft.
func RecordValues(rec POCRecord) map[string]string {
	status := rec.Status
	if status == "" {
		status = "Draft"
	}
	billable := "No"
	if rec.IsBillable {
		billable = "Yes"
	}

	return map[string]string{
		form.FieldPocID:            rec.PocID,
		form.FieldPocName:          rec.PocName,
		form.FieldEntityType:       rec.EntityType,
		form.FieldEntityName:       rec.EntityName,
		form.FieldSalesPerson:      rec.SalesPerson,
		form.FieldDescription:      rec.Description,
		form.FieldAssignedTo:       rec.AssignedTo,
		form.FieldCreatedBy:        rec.CreatedBy,
		form.FieldStartDate:        datePart(rec.StartDate),
		form.FieldEndDate:          datePart(rec.EndDate),
		form.FieldActualStartDate:  datePart(rec.ActualStartDate),
		form.FieldActualEndDate:    datePart(rec.ActualEndDate),
		form.FieldEstimatedEfforts: itoaOrEmpty(rec.EstimatedEfforts),
		form.FieldTotalEfforts:     itoaOrEmpty(rec.TotalEfforts),
		form.FieldVarianceDays:     itoaOrEmpty(rec.VarianceDays),
		form.FieldApprovedBy:       rec.ApprovedBy,
		form.FieldRemark:           rec.Remark,
		form.FieldRegion:           rec.Region,
		form.FieldIsBillable:       billable,
		form.FieldPocType:          rec.PocType,
		form.FieldSpocEmail:        rec.SpocEmail,
		form.FieldSpocDesignation:  rec.SpocDesignation,
		form.FieldTags:             rec.Tags,
		form.FieldStatus:           status,
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func itoaOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// datePart trims an ISO timestamp down to its yyyy-mm-dd date part.
func datePart(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		return ts[:i]
	}
	return ts
}
