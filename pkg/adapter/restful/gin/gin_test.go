// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/config"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/routes"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/stretchr/testify/suite"
)

type GinTestSuite struct {
	suite.Suite

	CEP *httptest.Server
	Gin *gin.Engine

	token  string
	userID uuid.UUID
}

func TestGinTestSuite(t *testing.T) {
	gin.SetReleaseMode()
	suite.Run(t, &GinTestSuite{})
}

func (gts *GinTestSuite) SetupSuite() {
	gts.CEP = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"logradouro": "Praça da Sé",
				"complemento": "lado ímpar",
				"bairro": "Sé",
				"localidade": "São Paulo",
				"uf": "SP"
			}`))
		},
	))
}

func (gts *GinTestSuite) TearDownSuite() {
	gts.CEP.Close()
}

// SetupTest creates a fresh memory store and a registered user for
// each test, so tests do not observe each other's reservations.
func (gts *GinTestSuite) SetupTest() {
	secretFile := filepath.Join(gts.T().TempDir(), "secret")
	err := os.WriteFile(
		secretFile, []byte("0123456789abcdef0123456789abcdef\n"), 0o600,
	)
	gts.Require().NoError(err, "cannot write the secret file")
	iters := 4096
	c := &config.Config{
		Store: config.StoreMemory,
		Auth:  config.Auth{SecretFile: secretFile},
		CEP:   config.CEP{BaseURL: gts.CEP.URL + "/ws/"},
		Usecases: config.Usecases{
			Users: config.Users{HashIterations: &iters},
		},
	}
	c.Versions.Config = config.Version
	gts.Require().NoError(c.ValidateAndNormalize(), "invalid config")
	app, err := c.NewAppUseCase(context.Background())
	gts.Require().NoError(err, "cannot create the app use case")
	gts.T().Cleanup(func() { _ = app.Close() })

	gts.Gin = c.Gin.NewEngine()
	routes.Register(gts.Gin, app)

	gts.userID = gts.createUser("joao@example.com", "529.982.247-25", "sim")
	gts.token = gts.login("joao@example.com", "secret-pass")
}

type errResp struct {
	Kind    string
	Subject string
	Detail  string
}

func (gts *GinTestSuite) do(
	method, path string, body any, token string, res any,
) int {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		gts.Require().NoError(err, "cannot marshal request body")
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, routes.Prefix+path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	gts.Gin.ServeHTTP(w, req)
	if res != nil && w.Body.Len() > 0 {
		gts.Require().NoError(
			json.Unmarshal(w.Body.Bytes(), res),
			"body is not json: %s", w.Body.String(),
		)
	}
	return w.Code
}

func (gts *GinTestSuite) createUser(email, cpf, qualified string) uuid.UUID {
	u := &model.User{}
	code := gts.do(http.MethodPost, "/users", map[string]any{
		"name":      "João Silva",
		"cpf":       cpf,
		"birth":     "01/02/1990",
		"email":     email,
		"password":  "secret-pass",
		"cep":       "01001-000",
		"qualified": qualified,
	}, "", u)
	gts.Require().Equal(http.StatusCreated, code, "cannot create user")
	gts.Equal("São Paulo", u.Address.Locality)
	gts.Equal("01001000", u.CEP)
	return u.ID
}

func (gts *GinTestSuite) login(email, password string) string {
	res := &struct{ Token string }{}
	code := gts.do(http.MethodPost, "/authenticate", map[string]any{
		"email":    email,
		"password": password,
	}, "", res)
	gts.Require().Equal(http.StatusOK, code, "cannot authenticate")
	gts.Require().NotEmpty(res.Token)
	return res.Token
}

func carBody(name string, valuePerDay float64) map[string]any {
	return map[string]any{
		"model":                name,
		"color":                "white",
		"year":                 "2020",
		"value_per_day":        valuePerDay,
		"number_of_passengers": 5,
		"accessories": []map[string]any{
			{"description": "air conditioning"},
			{"description": "4x4"},
		},
	}
}

func (gts *GinTestSuite) createCar(name string, valuePerDay float64) uuid.UUID {
	car := &model.Car{}
	code := gts.do(
		http.MethodPost, "/cars", carBody(name, valuePerDay), "", car,
	)
	gts.Require().Equal(http.StatusCreated, code, "cannot create car")
	return car.ID
}

func (gts *GinTestSuite) reserve(
	carID uuid.UUID, start, end string, res any,
) int {
	return gts.do(http.MethodPost, "/reservations", map[string]any{
		"car_id":     carID.String(),
		"start_date": start,
		"end_date":   end,
	}, gts.token, res)
}

func (gts *GinTestSuite) TestCarLifecycle() {
	cid := gts.createCar("GM S10 2.8", 150)

	car := &model.Car{}
	gts.Equal(http.StatusOK, gts.do(
		http.MethodGet, "/cars/"+cid.String(), nil, "", car,
	))
	gts.Equal("GM S10 2.8", car.Model)
	gts.Equal("150", car.ValuePerDay.String())
	gts.Require().Len(car.Accessories, 2)
	keptID := car.Accessories[0].ID

	body := carBody("GM S10 2.8 LT", 180)
	body["accessories"] = []map[string]any{
		{"id": keptID.String(), "description": "air conditioning"},
		{"description": "sunroof"},
	}
	car = &model.Car{}
	gts.Equal(http.StatusOK, gts.do(
		http.MethodPut, "/cars/"+cid.String(), body, "", car,
	))
	gts.Equal("GM S10 2.8 LT", car.Model)
	gts.Equal(keptID, car.Accessories[0].ID, "accessory id is lost")
	gts.NotEqual(uuid.Nil, car.Accessories[1].ID)

	gts.createCar("Fiat Uno", 99.9)
	page := &model.PageOf[model.Car]{}
	gts.Equal(http.StatusOK, gts.do(
		http.MethodGet, "/cars?model=s10&accessory=sun", nil, "", page,
	))
	gts.Equal(int64(1), page.Total)
	gts.Require().Len(page.Items, 1)
	gts.Equal(cid, page.Items[0].ID)

	page = &model.PageOf[model.Car]{}
	gts.Equal(http.StatusOK, gts.do(
		http.MethodGet, "/cars?limit=1&offset=1", nil, "", page,
	))
	gts.Equal(int64(2), page.Total)
	gts.Equal(int64(2), page.PageCount)
	gts.Len(page.Items, 1)

	gts.Equal(http.StatusNoContent, gts.do(
		http.MethodDelete, "/cars/"+cid.String(), nil, "", nil,
	))
	er := &errResp{}
	gts.Equal(http.StatusNotFound, gts.do(
		http.MethodGet, "/cars/"+cid.String(), nil, "", er,
	))
	gts.Equal("not-found", er.Kind)
	gts.Equal("car", er.Subject)
}

func (gts *GinTestSuite) TestCarBadRequest() {
	res := map[string][]string{}
	gts.Equal(http.StatusBadRequest, gts.do(
		http.MethodPost, "/cars", map[string]any{"color": "red"}, "", &res,
	))
	gts.Contains(res, "Model")
	gts.Contains(res, "Year")
	gts.Contains(res, "Accessories")

	body := carBody("Gol", 80)
	body["accessories"] = []map[string]any{
		{"description": "radio"},
		{"description": "radio"},
	}
	er := &errResp{}
	gts.Equal(http.StatusBadRequest, gts.do(
		http.MethodPost, "/cars", body, "", er,
	))
	gts.Equal("bad-request", er.Kind)

	res = map[string][]string{}
	gts.Equal(http.StatusBadRequest, gts.do(
		http.MethodGet, "/cars/not-a-uuid", nil, "", &res,
	))
	gts.Contains(res, "cid")
}

func (gts *GinTestSuite) TestUsers() {
	er := &errResp{}
	gts.Equal(http.StatusConflict, gts.do(
		http.MethodPost, "/users", map[string]any{
			"name":      "Another João",
			"cpf":       "111.444.777-35",
			"birth":     "01/02/1990",
			"email":     "JOAO@example.com",
			"password":  "secret-pass",
			"cep":       "01001000",
			"qualified": "yes",
		}, "", er,
	))
	gts.Equal("email", er.Subject)

	er = &errResp{}
	gts.Equal(http.StatusBadRequest, gts.do(
		http.MethodPost, "/users", map[string]any{
			"name":      "Maria",
			"cpf":       "111.111.111-11",
			"birth":     "01/02/1990",
			"email":     "maria@example.com",
			"password":  "secret-pass",
			"cep":       "01001000",
			"qualified": "no",
		}, "", er,
	))
	gts.Equal("bad-request", er.Kind)
	gts.Contains(er.Detail, "cpf")

	page := &model.PageOf[model.User]{}
	gts.Equal(http.StatusOK, gts.do(
		http.MethodGet, "/users?email=joao", nil, "", page,
	))
	gts.Require().Len(page.Items, 1)
	gts.Equal(gts.userID, page.Items[0].ID)

	raw := map[string]any{}
	gts.Equal(http.StatusOK, gts.do(
		http.MethodGet, "/users/"+gts.userID.String(), nil, "", &raw,
	))
	gts.NotContains(raw, "password", "password hash is exposed")
	gts.Equal("yes", raw["qualified"])
}

func (gts *GinTestSuite) TestAuthentication() {
	er := &errResp{}
	gts.Equal(http.StatusUnauthorized, gts.do(
		http.MethodPost, "/authenticate", map[string]any{
			"email":    "joao@example.com",
			"password": "wrong-pass",
		}, "", er,
	))
	gts.Equal("unauthenticated", er.Kind)

	er = &errResp{}
	gts.Equal(http.StatusUnauthorized, gts.do(
		http.MethodGet, "/reservations", nil, "", er,
	))
	gts.Equal("unauthenticated", er.Kind)

	er = &errResp{}
	gts.Equal(http.StatusUnauthorized, gts.do(
		http.MethodGet, "/reservations", nil, "not.a.token", er,
	))
	gts.Equal("unauthenticated", er.Kind)
}

func (gts *GinTestSuite) TestReservationAdmission() {
	cid := gts.createCar("GM S10 2.8", 150)

	res := &model.Reservation{}
	gts.Require().Equal(
		http.StatusCreated, gts.reserve(cid, "01/01/2022", "10/01/2022", res),
	)
	gts.Equal(gts.userID, res.UserID)
	gts.Equal("1350", res.FinalValue.String())

	adjacent := &model.Reservation{}
	gts.Equal(
		http.StatusCreated,
		gts.reserve(cid, "11/01/2022", "15/01/2022", adjacent),
	)

	er := &errResp{}
	gts.Equal(
		http.StatusConflict, gts.reserve(cid, "10/01/2022", "12/01/2022", er),
	)
	gts.Equal("conflict", er.Kind)
	gts.Equal("user", er.Subject)

	er = &errResp{}
	gts.Equal(
		http.StatusBadRequest, gts.reserve(cid, "30/02/2022", "01/03/2022", er),
	)
	gts.Equal("invalid-date", er.Kind)
	gts.Equal("start_date", er.Subject)

	er = &errResp{}
	gts.Equal(
		http.StatusBadRequest, gts.reserve(cid, "05/03/2022", "01/03/2022", er),
	)
	gts.Equal("invalid-range", er.Kind)

	er = &errResp{}
	gts.Equal(http.StatusNotFound, gts.reserve(
		uuid.New(), "01/03/2022", "05/03/2022", er,
	))
	gts.Equal("car", er.Subject)

	updated := &model.Reservation{}
	gts.Equal(http.StatusOK, gts.do(
		http.MethodPut, "/reservations/"+res.ID.String(), map[string]any{
			"car_id":     cid.String(),
			"start_date": "01/01/2022",
			"end_date":   "10/01/2022",
		}, gts.token, updated,
	), "self update must not conflict")
	gts.Equal(res.ID, updated.ID)

	page := &model.PageOf[model.Reservation]{}
	gts.Equal(http.StatusOK, gts.do(
		http.MethodGet, "/reservations?car_id="+cid.String(),
		nil, gts.token, page,
	))
	gts.Equal(int64(2), page.Total)
}

func (gts *GinTestSuite) TestUnqualifiedUser() {
	cid := gts.createCar("Fiat Uno", 99.9)
	uid := gts.createUser("maria@example.com", "111.444.777-35", "no")

	er := &errResp{}
	gts.Equal(http.StatusBadRequest, gts.do(
		http.MethodPost, "/reservations", map[string]any{
			"car_id":     cid.String(),
			"user_id":    uid.String(),
			"start_date": "01/01/2022",
			"end_date":   "02/01/2022",
		}, gts.token, er,
	))
	gts.Equal("unqualified", er.Kind)

	page := &model.PageOf[model.Reservation]{}
	gts.Equal(http.StatusOK, gts.do(
		http.MethodGet, "/reservations", nil, gts.token, page,
	))
	gts.Equal(int64(0), page.Total, "unqualified user wrote a reservation")
}

func (gts *GinTestSuite) TestDeleteCascades() {
	cid := gts.createCar("GM S10 2.8", 150)
	res := &model.Reservation{}
	gts.Require().Equal(
		http.StatusCreated, gts.reserve(cid, "01/01/2022", "10/01/2022", res),
	)
	gts.Equal(http.StatusNoContent, gts.do(
		http.MethodDelete, "/cars/"+cid.String(), nil, "", nil,
	))
	er := &errResp{}
	gts.Equal(http.StatusNotFound, gts.do(
		http.MethodGet, "/reservations/"+res.ID.String(), nil, gts.token, er,
	))
	gts.Equal("reservation", er.Subject)

	er = &errResp{}
	gts.Equal(http.StatusNotFound, gts.do(
		http.MethodDelete, "/reservations/"+uuid.NewString(), nil,
		gts.token, er,
	))
	gts.Equal("reservation", er.Subject)
}
