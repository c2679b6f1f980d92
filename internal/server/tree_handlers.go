package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/mdouchement/blinkreg/internal/server/serializer"
	"github.com/mdouchement/blinkreg/internal/service"
)

// tree contains all Merkle tree handlers.
type tree struct {
	trees *service.TreeService
}

// Create creates a Merkle tree whose authority is the signer.
func (h *tree) Create(c echo.Context) error {
	var params service.InitTreeParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, regerror.New("Could not get tree's params."))
	}
	params.Signer = currentSigner(c)

	tree, err := h.trees.Init(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, serializer.Tree(tree))
}

// Show returns the tree stored at the given address.
func (h *tree) Show(c echo.Context) error {
	tree, err := h.trees.Get(c.Param("address"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Tree(tree))
}

// Proof returns the inclusion proof of a leaf.
func (h *tree) Proof(c echo.Context) error {
	index, err := strconv.ParseUint(c.Param("index"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, regerror.New("Invalid leaf index."))
	}

	address := c.Param("address")
	proof, err := h.trees.Proof(address, uint32(index))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Proof(address, proof))
}

// ChangeLog returns the change log entries of the tree.
func (h *tree) ChangeLog(c echo.Context) error {
	var since uint64
	if v := c.QueryParam("since"); v != "" {
		var err error
		since, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, regerror.New("Invalid since sequence."))
		}
	}

	entries, err := h.trees.ChangeLog(c.Param("address"), since)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Global(serializer.ChangeLogs(entries)))
}
