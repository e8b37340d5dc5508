package api

import (
	"encoding/json"
	"strings"
)

// User is the descriptor the login endpoint returns alongside the token.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// Name returns the best display name the descriptor carries: the full
// name when the backend sent one, then the username, then the email.
func (u User) Name() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// LoginResponse is the success body of POST /api/auth/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ValidateResponse is the body of GET /api/auth/validate.
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// SaveResponse is the success body of POST /poc/save. Across backend
// revisions the identifier arrives as either "pocId" or "id".
type SaveResponse struct {
	PocID string `json:"pocId"`
	ID    string `json:"id"`
}

// Identifier returns the server-assigned identifier, preferring pocId.
func (r SaveResponse) Identifier() string {
	if r.PocID != "" {
		return r.PocID
	}
	return r.ID
}

// CodeSaveResponse is the body of POST /poc/savepocprjid and PUT
// /poc/update/{pocId}.
type CodeSaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		PocID string `json:"pocId"`
	} `json:"data"`
}

// POCRecord is one row of the management table (GET /poc/all). Tags travel
// as a comma-joined string, dates as ISO timestamps.
type POCRecord struct {
	PocID            string `json:"pocId"`
	PocName          string `json:"pocName"`
	EntityType       string `json:"entityType"`
	EntityName       string `json:"entityName"`
	SalesPerson      string `json:"salesPerson"`
	Description      string `json:"description"`
	AssignedTo       string `json:"assignedTo"`
	CreatedBy        string `json:"createdBy"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	ActualStartDate  string `json:"actualStartDate"`
	ActualEndDate    string `json:"actualEndDate"`
	EstimatedEfforts int    `json:"estimatedEfforts"`
	TotalEfforts     int    `json:"totalEfforts"`
	VarianceDays     int    `json:"varianceDays"`
	ApprovedBy       string `json:"approvedBy"`
	Remark           string `json:"remark"`
	Region           string `json:"region"`
	IsBillable       bool   `json:"isBillable"`
	PocType          string `json:"pocType"`
	SpocEmail        string `json:"spocEmail"`
	SpocDesignation  string `json:"spocDesignation"`
	Tags             string `json:"tags"`
	Status           string `json:"status"`
}

// Matches reports whether the record matches a case-insensitive search term
// across the columns the management table searches.
func (r POCRecord) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{
		r.PocID, r.PocName, r.EntityName, r.SalesPerson,
		r.Region, r.EntityType, r.AssignedTo, r.Description, r.Tags,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// DecodeOptions turns a dropdown-population response into a flat list of
// option strings. The backend's option endpoints are not consistent about
// shape: some return a bare array of strings, some wrap the array in a
// keyed object ("data", "users", "assignTo"), and some return arrays of
// objects carrying a name-ish field. All observed shapes are accepted;
// anything unnameable is dropped.
func DecodeOptions(body []byte) ([]string, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, NewParseError("malformed option list", err)
	}
	return flattenOptions(raw), nil
}

func flattenOptions(raw any) []string {
	switch v := raw.(type) {
	case []any:
		var out []string
		for _, item := range v {
			if name := optionName(item); name != "" {
				out = append(out, name)
			}
		}
		return out

	case map[string]any:
		for _, key := range []string{"data", "users", "assignTo"} {
			if arr, ok := v[key].([]any); ok {
				return flattenOptions(arr)
			}
		}
		// Fall back to the first array value, then to the object's own
		// string values.
		for _, val := range v {
			if arr, ok := val.([]any); ok {
				return flattenOptions(arr)
			}
		}
		var out []string
		for _, val := range v {
			if s, ok := val.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out

	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// optionName extracts a display name from one option entry, which may be a
// plain string or an object with one of several name fields.
func optionName(item any) string {
	switch v := item.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, key := range []string{"fullName", "name", "username", "email"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		first, _ := v["firstName"].(string)
		last, _ := v["lastName"].(string)
		if full := strings.TrimSpace(first + " " + last); full != "" {
			return full
		}
		for _, val := range v {
			if s, ok := val.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
