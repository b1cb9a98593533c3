// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/shopspring/decimal"
)

type rawCarReq struct {
	Model              string           `json:"model" binding:"required"`
	Color              string           `json:"color" binding:"required"`
	Year               string           `json:"year" binding:"required,len=4,numeric"`
	ValuePerDay        *decimal.Decimal `json:"value_per_day" binding:"required"`
	NumberOfPassengers int              `json:"number_of_passengers" binding:"required,gt=0"`
	Accessories        []rawAccessory   `json:"accessories" binding:"required,min=1,dive"`
}

type rawAccessory struct {
	ID          string `json:"id" binding:"omitempty,uuid"`
	Description string `json:"description" binding:"required"`
}

type rawListCarsReq struct {
	Model                *string `form:"model"`
	Color                *string `form:"color"`
	Year                 *string `form:"year"`
	ValuePerDay          *string `form:"value_per_day"`
	NumberOfPassengers   *int    `form:"number_of_passengers" binding:"omitempty,gt=0"`
	AccessoryDescription *string `form:"accessory"`
	serdser.PageReq
}

// DserCarReq deserializes a car from the request body. Further checks
// (such as the year range or unique accessories) are performed by the
// cars use case.
func (rs *resource) DserCarReq(c *gin.Context) *model.Car {
	req := &rawCarReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	car := &model.Car{
		Model:              req.Model,
		Color:              req.Color,
		Year:               req.Year,
		ValuePerDay:        *req.ValuePerDay,
		NumberOfPassengers: req.NumberOfPassengers,
		Accessories:        make([]model.Accessory, len(req.Accessories)),
	}
	serdser.Assert(
		&errs, car.ValuePerDay.IsPositive(),
		"value_per_day", "The value_per_day must be positive.",
	)
	for i, a := range req.Accessories {
		car.Accessories[i].Description = a.Description
		if a.ID != "" {
			car.Accessories[i].ID = uuid.MustParse(a.ID)
		}
	}
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return car
}

func (rs *resource) DserListCarsReq(c *gin.Context) (
	model.CarFilter, model.Page, bool,
) {
	req := &rawListCarsReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return model.CarFilter{}, model.Page{}, false
	}
	return model.CarFilter{
		Model:                req.Model,
		Color:                req.Color,
		Year:                 req.Year,
		ValuePerDay:          req.ValuePerDay,
		NumberOfPassengers:   req.NumberOfPassengers,
		AccessoryDescription: req.AccessoryDescription,
	}, req.ToModel(), true
}
