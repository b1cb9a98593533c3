// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reservationsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/flexilease/pkg/core/model"
)

// Dates are kept as strings, so the reservations use case can report
// their layout or calendar errors with the cerr InvalidDate kind.
type rawReservationReq struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	CarID     string `json:"car_id" binding:"required,uuid"`
	UserID    string `json:"user_id" binding:"omitempty,uuid"`
}

type reservationReq struct {
	StartDate string
	EndDate   string
	CarID     uuid.UUID
	UserID    uuid.UUID
}

type rawListReservationsReq struct {
	UserID     string  `form:"user_id" binding:"omitempty,uuid"`
	CarID      string  `form:"car_id" binding:"omitempty,uuid"`
	StartDate  *string `form:"start_date"`
	EndDate    *string `form:"end_date"`
	FinalValue *string `form:"final_value"`
	serdser.PageReq
}

// DserReservationReq deserializes a reservation from the request body.
// A missing user_id defaults to the authenticated user.
func (rs *resource) DserReservationReq(c *gin.Context) *reservationReq {
	req := &rawReservationReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	val := &reservationReq{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CarID:     uuid.MustParse(req.CarID),
	}
	if req.UserID != "" {
		val.UserID = uuid.MustParse(req.UserID)
		return val
	}
	uid, ok := authrs.UserID(c)
	if !ok {
		var errs map[string][]string
		serdser.AddErr(&errs, "user_id", "The user_id is required.")
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	val.UserID = uid
	return val
}

func (rs *resource) DserListReservationsReq(c *gin.Context) (
	model.ReservationFilter, model.Page, bool,
) {
	req := &rawListReservationsReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return model.ReservationFilter{}, model.Page{}, false
	}
	f := model.ReservationFilter{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		FinalValue: req.FinalValue,
	}
	if req.UserID != "" {
		uid := uuid.MustParse(req.UserID)
		f.UserID = &uid
	}
	if req.CarID != "" {
		cid := uuid.MustParse(req.CarID)
		f.CarID = &cid
	}
	return f, req.ToModel(), true
}
