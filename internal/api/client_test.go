package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "nitin", creds["username"])

		_ = json.NewEncoder(w).Encode(LoginResponse{
			Token: "tok-123",
			User:  User{Username: "nitin"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Login(context.Background(), "nitin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.Token)
	assert.Equal(t, "nitin", resp.User.Username)
}

func TestLoginRejectedCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Login(context.Background(), "nitin", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid credentials", UserMessage(err))
}

func TestLoginNetworkFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.Login(context.Background(), "nitin", "secret")
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		valid  bool
	}{
		{"valid token", http.StatusOK, `{"valid":true}`, true},
		{"invalid token", http.StatusOK, `{"valid":false}`, false},
		{"expired token (401)", http.StatusUnauthorized, `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			valid, err := NewClient(srv.URL).Validate(context.Background(), "tok-123")
			require.NoError(t, err)
			assert.Equal(t, tt.valid, valid)
		})
	}
}

func TestOptionEndpointShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"bare string array", `["John Doe","Jane Smith"]`, []string{"John Doe", "Jane Smith"}},
		{"data wrapper", `{"data":["ROW","ISSARC"]}`, []string{"ROW", "ISSARC"}},
		{"users wrapper", `{"users":[{"username":"admin"},{"username":"manager"}]}`, []string{"admin", "manager"}},
		{"assignTo wrapper", `{"assignTo":["developer"]}`, []string{"developer"}},
		{"object entries with fullName", `[{"fullName":"Mike Johnson"},{"name":"Sarah Wilson"}]`, []string{"Mike Johnson", "Sarah Wilson"}},
		{"first/last name objects", `[{"firstName":"Mike","lastName":"Johnson"}]`, []string{"Mike Johnson"}},
		{"single string", `"admin"`, []string{"admin"}},
		{"empty array", `[]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeOptions([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreatedByPassesUsername(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/poc/getCreatedBy", r.URL.Path)
		assert.Equal(t, "nitin b", r.URL.Query().Get("username"))
		_, _ = w.Write([]byte(`["nitin b"]`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).CreatedBy(context.Background(), "tok", "nitin b")
	require.NoError(t, err)
	assert.Equal(t, []string{"nitin b"}, got)
}

func TestSavePOC(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantID  string
		wantErr bool
		unauth  bool
	}{
		{"pocId field", http.StatusOK, `{"pocId":"POC-42"}`, "POC-42", false, false},
		{"id field", http.StatusOK, `{"id":"POC-43"}`, "POC-43", false, false},
		{"missing identifier", http.StatusOK, `{"ok":true}`, "", true, false},
		{"server rejection", http.StatusBadRequest, `{"message":"duplicate record"}`, "", true, false},
		{"session expiry", http.StatusUnauthorized, `{}`, "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/poc/save", r.URL.Path)
				require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			id, err := NewClient(srv.URL).SavePOC(context.Background(), "tok", map[string]any{"spName": "Jane"})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.unauth, IsUnauthorized(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestSaveCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/poc/savepocprjid", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"pocId":"PRJ-7"},"message":"created"}`))
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL).SaveCode(context.Background(), "tok", POCRecord{PocID: "PRJ-7"})
	require.NoError(t, err)
	assert.Equal(t, "PRJ-7", id)
}

func TestSaveCodeBackendFailureFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"duplicate POC ID"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SaveCode(context.Background(), "tok", POCRecord{})
	require.Error(t, err)
	assert.Equal(t, "duplicate POC ID", UserMessage(err))
}

func TestUpdateRequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/poc/update/POC-42", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var rec POCRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		assert.Equal(t, "Chatbot pilot", rec.PocName)

		_, _ = w.Write([]byte(`{"success":true,"data":{"pocId":"POC-42"}}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Update(context.Background(), "tok", "POC-42", POCRecord{PocName: "Chatbot pilot"})
	require.NoError(t, err)
}

func TestDeleteRequestShape(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/poc/delete/POC-42", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).Delete(context.Background(), "tok", "POC-42"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/poc/all", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"pocId":"POC-1","pocName":"Chatbot pilot","isBillable":true,"tags":"GenAI,SAP"},
			{"pocId":"POC-2","pocName":"Mainframe bridge","status":"Completed"}
		]`))
	}))
	defer srv.Close()

	records, err := NewClient(srv.URL).All(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "POC-1", records[0].PocID)
	assert.True(t, records[0].IsBillable)
	assert.Equal(t, "Completed", records[1].Status)
}

func TestUserNamePrecedence(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full name wins", User{Username: "nitin", Email: "n@x.com", FullName: "Nitin Bhujbal"}, "Nitin Bhujbal"},
		{"username next", User{Username: "nitin", Email: "n@x.com"}, "nitin"},
		{"email last", User{Email: "n@x.com"}, "n@x.com"},
		{"empty descriptor", User{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.Name())
		})
	}
}

func TestRecordMatches(t *testing.T) {
	rec := POCRecord{
		PocID:       "POC-1",
		PocName:     "Chatbot pilot",
		EntityName:  "Acme Corp",
		SalesPerson: "Jane Smith",
		Tags:        "GenAI,SAP",
		SpocEmail:   "spoc@acme.com",
	}

	assert.True(t, rec.Matches(""))
	assert.True(t, rec.Matches("chatbot"))
	assert.True(t, rec.Matches("ACME"))
	assert.True(t, rec.Matches("genai"))
	assert.False(t, rec.Matches("zebra"))
	// SPOC email is not one of the searched columns.
	assert.False(t, rec.Matches("spoc@acme.com"))
}
