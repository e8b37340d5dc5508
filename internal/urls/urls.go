package urls

import "net/url"

// Backend route paths for the POC portal.
// The backend is not consistent about its path casing or pluralization;
// these constants are the wire contract as the server actually exposes it.

// Authentication routes.
const (
	AuthLogin    = "/api/auth/login"
	AuthValidate = "/api/auth/validate"
	AuthLogout   = "/api/auth/logout"
)

// Dropdown option routes. Each populates one form dropdown.
const (
	AllSalesPersons  = "/poc/getAllSalesPerson"
	AllRegions       = "/poc/getAllRegion"
	AllCustomerTypes = "/poc/getAllCustomerTypes"
	AllProcessTypes  = "/poc/getAllProcessType"
	AllAssignTo      = "/poc/getAllAssignTo"
	AllApprovedBy    = "/poc/getAllApprovedBy"
)

// Record routes.
const (
	Save     = "/poc/save"
	SaveCode = "/poc/savepocprjid"
	All      = "/poc/all"
)

// CreatedBy returns the creator-options route scoped to one username.
func CreatedBy(username string) string {
	return "/poc/getCreatedBy?username=" + url.QueryEscape(username)
}

// Update returns the update route for one record.
func Update(pocID string) string {
	return "/poc/update/" + url.PathEscape(pocID)
}

// Delete returns the delete route for one record.
func Delete(pocID string) string {
	return "/poc/delete/" + url.PathEscape(pocID)
}
