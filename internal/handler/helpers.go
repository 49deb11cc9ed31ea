package handler

import (
	"errors"
	"net/http"
	"reflect"

	"bistro/internal/apierror"
	"bistro/internal/infra"
	"bistro/internal/repository"
	"bistro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gte=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// pathID parses the :id path parameter, writing 400 when it is not an ObjectID.
func pathID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := repository.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.MsgInvalidID))
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondError maps domain errors to their status; anything else is handed to
// middleware.ErrorHandler as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, apierror.New(apierror.MsgForbidden))
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, apierror.New(apierror.MsgInvalidID))
	case errors.Is(err, service.ErrAmountOutOfRange):
		c.JSON(http.StatusUnprocessableEntity, apierror.New("price is outside the chargeable range"))
	case errors.Is(err, infra.ErrCircuitOpen):
		c.JSON(http.StatusServiceUnavailable, apierror.New("payment processor temporarily unavailable"))
	case errors.Is(err, infra.ErrProcessor):
		c.JSON(http.StatusBadGateway, apierror.New("payment processor error"))
	default:
		_ = c.Error(err)
	}
}
