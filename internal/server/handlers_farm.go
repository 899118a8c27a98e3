package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/liaolj/iot-board/internal/domain"
	apperrors "github.com/liaolj/iot-board/internal/errors"
)

func (s *Server) registerFarmRoutes() {
	s.echo.POST("/api/fields", s.handleCreateField)
	s.echo.GET("/api/fields", s.handleListFields)
	s.echo.GET("/api/fields/:id", s.handleGetField)
	s.echo.PUT("/api/fields/:id", s.handleUpdateField)
	s.echo.DELETE("/api/fields/:id", s.handleDeleteField)

	s.echo.POST("/api/crops", s.handleCreateCrop)
	s.echo.GET("/api/crops", s.handleListCrops)
	s.echo.GET("/api/crops/:id", s.handleGetCrop)
	s.echo.PUT("/api/crops/:id", s.handleUpdateCrop)
	s.echo.DELETE("/api/crops/:id", s.handleDeleteCrop)

	s.echo.POST("/api/operations", s.handleCreateOperation)
	s.echo.GET("/api/operations", s.handleListOperations)
	s.echo.GET("/api/operations/:id", s.handleGetOperation)
	s.echo.PUT("/api/operations/:id", s.handleUpdateOperation)
	s.echo.DELETE("/api/operations/:id", s.handleDeleteOperation)
}

func parseIDParam(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.ValidationError("invalid id").WithField("id", raw)
	}
	return id, nil
}

// translateFarmError maps repository sentinels onto API errors.
func translateFarmError(err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrFieldNotFound):
		return apperrors.NotFoundError("field not found")
	case errors.Is(err, domain.ErrCropNotFound):
		return apperrors.NotFoundError("crop not found")
	case errors.Is(err, domain.ErrOperationNotFound):
		return apperrors.NotFoundError("operation not found")
	default:
		return apperrors.InternalError("failed to "+action, err)
	}
}

func sendJSON(c echo.Context, status int, body any) error {
	if err := c.JSON(status, body); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleCreateField(c echo.Context) error {
	var in domain.FieldInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := in.Validate(); err != nil {
		return apperrors.ValidationError(err.Error())
	}

	field, err := s.repos.Fields.Create(c.Request().Context(), in)
	if err != nil {
		return translateFarmError(err, "create field")
	}
	return sendJSON(c, http.StatusCreated, field)
}

func (s *Server) handleListFields(c echo.Context) error {
	fields, err := s.repos.Fields.List(c.Request().Context())
	if err != nil {
		return translateFarmError(err, "list fields")
	}
	return sendJSON(c, http.StatusOK, fields)
}

func (s *Server) handleGetField(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	field, err := s.repos.Fields.Get(c.Request().Context(), id)
	if err != nil {
		return translateFarmError(err, "get field")
	}
	return sendJSON(c, http.StatusOK, field)
}

func (s *Server) handleUpdateField(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var in domain.FieldInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := in.Validate(); err != nil {
		return apperrors.ValidationError(err.Error())
	}

	field, err := s.repos.Fields.Update(c.Request().Context(), id, in)
	if err != nil {
		return translateFarmError(err, "update field")
	}
	return sendJSON(c, http.StatusOK, field)
}

func (s *Server) handleDeleteField(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := s.repos.Fields.Delete(c.Request().Context(), id); err != nil {
		return translateFarmError(err, "delete field")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCreateCrop(c echo.Context) error {
	var in domain.CropInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := in.Validate(); err != nil {
		return apperrors.ValidationError(err.Error())
	}

	crop, err := s.repos.Crops.Create(c.Request().Context(), in)
	if err != nil {
		return translateFarmError(err, "create crop")
	}
	return sendJSON(c, http.StatusCreated, crop)
}

func (s *Server) handleListCrops(c echo.Context) error {
	crops, err := s.repos.Crops.List(c.Request().Context())
	if err != nil {
		return translateFarmError(err, "list crops")
	}
	return sendJSON(c, http.StatusOK, crops)
}

func (s *Server) handleGetCrop(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	crop, err := s.repos.Crops.Get(c.Request().Context(), id)
	if err != nil {
		return translateFarmError(err, "get crop")
	}
	return sendJSON(c, http.StatusOK, crop)
}

func (s *Server) handleUpdateCrop(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var in domain.CropInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := in.Validate(); err != nil {
		return apperrors.ValidationError(err.Error())
	}

	crop, err := s.repos.Crops.Update(c.Request().Context(), id, in)
	if err != nil {
		return translateFarmError(err, "update crop")
	}
	return sendJSON(c, http.StatusOK, crop)
}

func (s *Server) handleDeleteCrop(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := s.repos.Crops.Delete(c.Request().Context(), id); err != nil {
		return translateFarmError(err, "delete crop")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCreateOperation(c echo.Context) error {
	var in domain.OperationInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := in.Validate(); err != nil {
		return apperrors.ValidationError(err.Error())
	}

	op, err := s.repos.Operations.Create(c.Request().Context(), in)
	if err != nil {
		return translateFarmError(err, "create operation")
	}
	return sendJSON(c, http.StatusCreated, op)
}

func (s *Server) handleListOperations(c echo.Context) error {
	ops, err := s.repos.Operations.List(c.Request().Context())
	if err != nil {
		return translateFarmError(err, "list operations")
	}
	return sendJSON(c, http.StatusOK, ops)
}

func (s *Server) handleGetOperation(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	op, err := s.repos.Operations.Get(c.Request().Context(), id)
	if err != nil {
		return translateFarmError(err, "get operation")
	}
	return sendJSON(c, http.StatusOK, op)
}

func (s *Server) handleUpdateOperation(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var in domain.OperationInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := in.Validate(); err != nil {
		return apperrors.ValidationError(err.Error())
	}

	op, err := s.repos.Operations.Update(c.Request().Context(), id, in)
	if err != nil {
		return translateFarmError(err, "update operation")
	}
	return sendJSON(c, http.StatusOK, op)
}

func (s *Server) handleDeleteOperation(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := s.repos.Operations.Delete(c.Request().Context(), id); err != nil {
		return translateFarmError(err, "delete operation")
	}
	return c.NoContent(http.StatusNoContent)
}
