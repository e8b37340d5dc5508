package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bhujbal-nitin/poc-portal/internal/form"
)

func TestInitiationPayloadRenamesSalesPerson(t *testing.T) {
	s := form.NewState(form.Initiation())
	s.SetField(form.FieldSalesPerson, "Jane Smith")
	s.SetField(form.FieldEndCustomerType, "Client")
	s.SetField(form.FieldMobileNumber, "9876543210")

	payload := InitiationPayload(s.Values())

	assert.Equal(t, "Jane Smith", payload["spName"])
	assert.NotContains(t, payload, "salesPerson")
	assert.Equal(t, "9876543210", payload["mobileNumber"])
	// Partner block stays off the wire for non-partner engagements.
	assert.NotContains(t, payload, "partnerCompanyName")
}

func TestInitiationPayloadPartnerBlock(t *testing.T) {
	s := form.NewState(form.Initiation())
	s.SetField(form.FieldEndCustomerType, form.EntityPartner)
	s.SetField(form.FieldPartnerCompanyName, "Partner Ltd")
	s.SetField(form.FieldPartnerSpocEmail, "spoc@partner.com")

	payload := InitiationPayload(s.Values())

	assert.Equal(t, "Partner Ltd", payload["partnerCompanyName"])
	assert.Equal(t, "spoc@partner.com", payload["partnerSpocEmail"])
}

func TestCodeRecordConversions(t *testing.T) {
	s := form.NewState(form.Edit())
	s.Fill(map[string]string{
		form.FieldPocID:            "POC-42",
		form.FieldIsBillable:       "Yes",
		form.FieldEstimatedEfforts: "12",
		form.FieldTotalEfforts:     "not a number",
		form.FieldTags:             "GenAI,SAP",
	})

	rec := CodeRecord(s.Values())

	assert.Equal(t, "POC-42", rec.PocID)
	assert.True(t, rec.IsBillable)
	assert.Equal(t, 12, rec.EstimatedEfforts)
	assert.Equal(t, 0, rec.TotalEfforts)
	assert.Equal(t, "GenAI,SAP", rec.Tags)
}

func TestRecordValuesRoundTrip(t *testing.T) {
	rec := POCRecord{
		PocID:            "POC-42",
		PocName:          "Chatbot pilot",
		StartDate:        "2026-01-05T00:00:00Z",
		EstimatedEfforts: 12,
		IsBillable:       true,
		Tags:             "GenAI",
	}

	values := RecordValues(rec)

	assert.Equal(t, "POC-42", values[form.FieldPocID])
	assert.Equal(t, "2026-01-05", values[form.FieldStartDate])
	assert.Equal(t, "12", values[form.FieldEstimatedEfforts])
	assert.Equal(t, "Yes", values[form.FieldIsBillable])
	// Missing status defaults to Draft, matching the table's display rule.
	assert.Equal(t, "Draft", values[form.FieldStatus])
}
