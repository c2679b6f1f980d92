package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/mdouchement/blinkreg/internal/server/serializer"
	"github.com/mdouchement/blinkreg/internal/service"
)

// cnft contains all compressed NFT registry handlers.
type cnft struct {
	registry *service.CompressedNftRegistry
}

// Create mints a compressed NFT owned by the signer.
func (h *cnft) Create(c echo.Context) error {
	var params service.CreateCompressedNftParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, regerror.New("Could not get compressed NFT's params."))
	}
	params.Signer = currentSigner(c)

	nft, err := h.registry.Create(params)
	if err != nil {
		return err
	}

	leaf, err := h.registry.Leaf(nft)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, serializer.CompressedNft(nft, leaf[:]))
}

// List returns the compressed NFTs of the given owner.
func (h *cnft) List(c echo.Context) error {
	owner := c.QueryParam("owner")
	if owner == "" {
		return c.JSON(http.StatusBadRequest, regerror.New("No owner provided."))
	}

	nfts, err := h.registry.List(owner)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Global(serializer.CompressedNfts(nfts)))
}

// Show returns the compressed NFT stored at the given address with its current leaf hash.
func (h *cnft) Show(c echo.Context) error {
	nft, err := h.registry.Get(c.Param("address"))
	if err != nil {
		return err
	}

	leaf, err := h.registry.Leaf(nft)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, serializer.CompressedNft(nft, leaf[:]))
}

// Transfer gives the compressed NFT to the recipient.
func (h *cnft) Transfer(c echo.Context) error {
	var params service.TransferParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, regerror.New("Could not get transfer's params."))
	}
	params.Signer = currentSigner(c)
	params.Address = c.Param("address")

	nft, err := h.registry.Transfer(params)
	if err != nil {
		return err
	}

	leaf, err := h.registry.Leaf(nft)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, serializer.CompressedNft(nft, leaf[:]))
}

// Burn burns the compressed NFT.
func (h *cnft) Burn(c echo.Context) error {
	err := h.registry.Burn(service.DeleteParams{
		Params:  service.Params{Signer: currentSigner(c)},
		Address: c.Param("address"),
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
