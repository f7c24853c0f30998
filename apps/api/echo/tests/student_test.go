package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/formacion/apps/api/echo"
	"github.com/trezcool/formacion/core/student"
	testutil "github.com/trezcool/formacion/tests"
)

func Test_studentApi_query(t *testing.T) {
	app := setup(t)
	seedDeal(t)

	now := time.Now()
	ana := testutil.CreateStudent(t, studentRepo, "d1", "s1", "Ana", "Zubiri", "3", now.Add(time.Hour))
	luis := testutil.CreateStudent(t, studentRepo, "d1", "s1", "Luis", "Abad", "1", now)
	eva := testutil.CreateStudent(t, studentRepo, "d1", "s1", "Eva", "Marín", "2", now.Add(2*time.Hour))
	testutil.CreateStudent(t, studentRepo, "d1", "s2", "Otra", "Sesión", "4")

	token := getToken(t, "viewer")
	empty := marchallList(t)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/deals/d1/sessions/s1/alumnos", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "unknown session", path: "/v1/deals/d1/sessions/lol/alumnos", token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "session of another deal", path: "/v1/deals/d2/sessions/s1/alumnos", token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "empty session", path: "/v1/deals/d2/sessions/s3/alumnos", token: token, wantCode: http.StatusOK, wantData: empty},
		{name: "all", path: "/v1/deals/d1/sessions/s1/alumnos", token: token, wantCode: http.StatusOK, wantData: marchallList(t, luis, ana, eva)},
		{name: "ordering=apellido", path: "/v1/deals/d1/sessions/s1/alumnos?ordering=apellido", token: token, wantCode: http.StatusOK, wantData: marchallList(t, luis, eva, ana)},
		{name: "ordering=-dni", path: "/v1/deals/d1/sessions/s1/alumnos?ordering=-dni", token: token, wantCode: http.StatusOK, wantData: marchallList(t, ana, eva, luis)},
		{name: "ordering=created_at", path: "/v1/deals/d1/sessions/s1/alumnos?ordering=created_at", token: token, wantCode: http.StatusOK, wantData: marchallList(t, luis, ana, eva)},
		{name: "unknown ordering ignored", path: "/v1/deals/d1/sessions/s1/alumnos?ordering=lol", token: token, wantCode: http.StatusOK, wantData: marchallList(t, luis, ana, eva)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_create(t *testing.T) {
	app := setup(t)
	seedDeal(t)
	existing := testutil.CreateStudent(t, studentRepo, "d1", "s1", "Ana", "Gil", "12345678A")

	path := "/v1/deals/d1/sessions/s1/alumnos"
	token := getToken(t, "operator", RoleOperator)

	tests := []httpTest{
		{
			name: "Operator required", body: []byte(`{}`), token: getToken(t, "viewer"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "missing fields", body: []byte(`{"nombre": "  "}`), token: token, wantCode: http.StatusBadRequest,
			wantData: []byte(`{"nombre": "this field is required", "apellido": "this field is required", "dni": "this field is required"}`),
		},
		{
			name: "nombre too long", body: []byte(`{"nombre": "` + strings.Repeat("a", 121) + `", "apellido": "Paz", "dni": "9"}`), token: token,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"nombre": "nombre must be a maximum of 120 characters in length"}`),
		},
		{
			name: "duplicate dni", body: []byte(`{"nombre": "Ana", "apellido": "Gil", "dni": "12.345.678-a"}`), token: token,
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: student.ErrDuplicateDNI.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("long dni", func(t *testing.T) {
		dni := strings.Repeat("1234567890", 3)
		body := []byte(`{"nombre": "Eva", "apellido": "Sanz", "dni": "` + dni + `"}`)
		req, rec := newAuthRequest(http.MethodPost, path, token, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var std student.Student
		decode(t, rec, &std)
		assert.Equal(t, dni, std.DNI)
	})

	t.Run("created", func(t *testing.T) {
		body := []byte(`{"nombre": " Luis  María ", "apellido": "Paz", "dni": "x-1234", "deal_id": "d2", "session_id": "s3"}`)
		req, rec := newAuthRequest(http.MethodPost, path, token, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var std student.Student
		decode(t, rec, &std)
		assert.NotEmpty(t, std.ID)
		assert.NotEqual(t, existing.ID, std.ID)
		assert.Equal(t, "d1", std.DealID, "failed! deal taken from the body")
		assert.Equal(t, "s1", std.SessionID, "failed! session taken from the body")
		assert.Equal(t, "Luis María", std.Nombre)
		assert.Equal(t, "X1234", std.DNI)

		stored, err := studentRepo.GetStudent(context.Background(), std.ID)
		require.NoError(t, err)
		assert.Equal(t, std.Nombre, stored.Nombre)
	})
}

func Test_studentApi_detail(t *testing.T) {
	app := setup(t)
	seedDeal(t)
	ana := testutil.CreateStudent(t, studentRepo, "d1", "s1", "Ana", "Gil", "1")
	luis := testutil.CreateStudent(t, studentRepo, "d1", "s1", "Luis", "Paz", "2")

	viewer := getToken(t, "viewer")
	operator := getToken(t, "operator", RoleOperator)

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/alumnos/" + ana.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "not found", method: http.MethodGet, path: "/v1/alumnos/lol", token: viewer, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "retrieve", method: http.MethodGet, path: "/v1/alumnos/" + ana.ID, token: viewer, wantCode: http.StatusOK, wantData: marchallObj(t, ana)},
		{
			name: "update: Operator required", method: http.MethodPatch, path: "/v1/alumnos/" + ana.ID, token: viewer,
			body: []byte(`{"nombre": "Anna"}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "update: nothing to update", method: http.MethodPatch, path: "/v1/alumnos/" + ana.ID, token: operator,
			body: []byte(`{}`), wantCode: http.StatusOK, wantData: marchallObj(t, ana),
		},
		{
			name: "update: blank name", method: http.MethodPatch, path: "/v1/alumnos/" + ana.ID, token: operator,
			body: []byte(`{"nombre": "   "}`), wantCode: http.StatusBadRequest, wantData: []byte(`{"nombre": "this field cannot be blank"}`),
		},
		{
			name: "delete: Operator required", method: http.MethodDelete, path: "/v1/alumnos/" + luis.ID, token: viewer,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "delete: not found", method: http.MethodDelete, path: "/v1/alumnos/lol", token: operator, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/v1/alumnos/"+ana.ID, operator, []byte(`{"apellido": " Gil  Ruiz "}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var std student.Student
		decode(t, rec, &std)
		assert.Equal(t, "Ana", std.Nombre)
		assert.Equal(t, "Gil Ruiz", std.Apellido)
		assert.Equal(t, ana.DNI, std.DNI)
		assert.True(t, std.UpdatedAt.After(ana.UpdatedAt) || std.UpdatedAt.Equal(ana.UpdatedAt))
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/alumnos/"+luis.ID, operator)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		_, err := studentRepo.GetStudent(context.Background(), luis.ID)
		assert.Equal(t, student.ErrNotFound, err)
	})
}
