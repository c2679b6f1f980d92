package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/mdouchement/blinkreg/internal/server/serializer"
	"github.com/mdouchement/blinkreg/internal/service"
)

// blink contains all blink registry handlers.
type blink struct {
	registry *service.BlinkRegistry
}

// Create creates a blink owned by the signer.
func (h *blink) Create(c echo.Context) error {
	var params service.CreateBlinkParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, regerror.New("Could not get blink's params."))
	}
	params.Signer = currentSigner(c)

	blink, err := h.registry.Create(c.Request().Context(), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, serializer.Blink(blink))
}

// List returns the blinks of the given owner.
func (h *blink) List(c echo.Context) error {
	owner := c.QueryParam("owner")
	if owner == "" {
		return c.JSON(http.StatusBadRequest, regerror.New("No owner provided."))
	}

	blinks, err := h.registry.List(owner)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Global(serializer.Blinks(blinks)))
}

// Show returns the blink stored at the given address.
func (h *blink) Show(c echo.Context) error {
	blink, err := h.registry.Get(c.Param("address"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Blink(blink))
}

// Update overwrites the given fields of the blink.
func (h *blink) Update(c echo.Context) error {
	var params service.UpdateBlinkParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, regerror.New("Could not get blink's params."))
	}
	params.Signer = currentSigner(c)
	params.Address = c.Param("address")

	blink, err := h.registry.Update(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Blink(blink))
}

// Delete closes the blink.
func (h *blink) Delete(c echo.Context) error {
	err := h.registry.Delete(service.DeleteParams{
		Params:  service.Params{Signer: currentSigner(c)},
		Address: c.Param("address"),
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
