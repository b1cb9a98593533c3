// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reservationsrs realizes the reservations resource, allowing
// the reservations REST APIs to be accepted and delegated to the
// reservations use cases respectively. All of its routes require an
// authenticated user.
package reservationsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/flexilease/pkg/core/usecase/reservationsuc"
)

type resource struct {
	reservations *reservationsuc.UseCase
}

// Register instantiates a resource adapting the reservations use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/flweb/v1/reservations in order to admit a
//     reservation,
//  2. GET request to /api/flweb/v1/reservations in order to list
//     reservations,
//  3. GET request to /api/flweb/v1/reservations/:rid in order to find
//     a reservation,
//  4. PUT request to /api/flweb/v1/reservations/:rid in order to
//     re-admit a reservation with new attributes,
//  5. DELETE request to /api/flweb/v1/reservations/:rid in order to
//     delete a reservation.
//
// The authn middleware is registered for all of these routes.
func Register(
	r *gin.RouterGroup,
	reservations *reservationsuc.UseCase,
	authn gin.HandlerFunc,
) {
	rs := &resource{reservations: reservations}
	g := r.Group("reservations", authn)
	g.POST("", rs.CreateReservation)
	g.GET("", rs.ListReservations)
	g.GET(":rid", rs.GetReservation)
	g.PUT(":rid", rs.UpdateReservation)
	g.DELETE(":rid", rs.DeleteReservation)
}

func (rs *resource) CreateReservation(c *gin.Context) {
	req := rs.DserReservationReq(c)
	if req == nil {
		return
	}
	res, err := rs.reservations.Create(
		c, req.UserID, req.CarID, req.StartDate, req.EndDate,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (rs *resource) ListReservations(c *gin.Context) {
	f, p, ok := rs.DserListReservationsReq(c)
	if !ok {
		return
	}
	page, err := rs.reservations.List(c, f, p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (rs *resource) GetReservation(c *gin.Context) {
	rid, ok := serdser.ParamID(c, "rid")
	if !ok {
		return
	}
	res, err := rs.reservations.Get(c, rid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (rs *resource) UpdateReservation(c *gin.Context) {
	rid, ok := serdser.ParamID(c, "rid")
	if !ok {
		return
	}
	req := rs.DserReservationReq(c)
	if req == nil {
		return
	}
	res, err := rs.reservations.Update(
		c, rid, req.UserID, req.CarID, req.StartDate, req.EndDate,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (rs *resource) DeleteReservation(c *gin.Context) {
	rid, ok := serdser.ParamID(c, "rid")
	if !ok {
		return
	}
	if err := rs.reservations.Delete(c, rid); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
