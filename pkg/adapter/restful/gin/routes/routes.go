// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// registration of all resources for the use cases which are held by
// an application use case.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/carsrs"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/reservationsrs"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/usersrs"
	"github.com/momeni/flexilease/pkg/core/usecase/appuc"
)

// Prefix is the common path prefix of all REST APIs.
const Prefix = "/api/flweb/v1"

// Register instantiates a series of "resource" structs, from packages
// which are named like carsrs, in order to adapt the use cases of the
// app application use case with the REST APIs. These resources are
// registered as request handlers using the e gin-gonic engine instance.
// Each use case package is named like carsuc and each repository
// package (used by those use cases) is named like carsrp.
// Instantiation of the use cases and repositories is delegated to the
// configuration settings and the appuc package beforehand.
func Register(e *gin.Engine, app *appuc.UseCase) {
	r := e.Group(Prefix)
	authrs.Register(r, app.AuthUseCase())
	carsrs.Register(r, app.CarsUseCase())
	usersrs.Register(r, app.UsersUseCase())
	reservationsrs.Register(
		r, app.ReservationsUseCase(),
		authrs.Middleware(app.AuthUseCase()),
	)
}
