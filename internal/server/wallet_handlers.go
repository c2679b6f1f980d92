package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/server/serializer"
	"github.com/mdouchement/blinkreg/internal/service"
)

// wallet contains the deposit ledger handlers.
type wallet struct {
	db database.Client
}

// Show returns the storage deposits of the given address.
func (h *wallet) Show(c echo.Context) error {
	wallet, err := service.Wallet(h.db, c.Param("address"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Wallet(wallet))
}
