package controller

import (
	"errors"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PurchaseController struct {
	PurchaseService *service.PurchaseService
}

func NewPurchaseController(purchaseService *service.PurchaseService) *PurchaseController {
	return &PurchaseController{PurchaseService: purchaseService}
}

// @Summary Purchase a course
// @Description Records the purchase after checkout completes. Purchasing is
// @Description idempotent per learner/course; a second attempt conflicts.
// @Tags purchases
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "course id"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/courses/{courseId}/checkout [post]
func (c *PurchaseController) Checkout(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	purchase, err := c.PurchaseService.Checkout(user.UserID, ctx.Param("courseId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyPurchased):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrCoursePriceNotSet):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, purchase)
}

// @Summary List own purchases
// @Tags purchases
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/purchases [get]
func (c *PurchaseController) ListPurchases(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	purchases, err := c.PurchaseService.LearnerPurchases(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, purchases)
}
