package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/michi-labs/catapi/internal/core/ports"
)

// CatalogHandler relays breed and image lookups to the upstream catalog.
// Bodies are returned exactly as the upstream sent them.
type CatalogHandler struct {
	catalog ports.BreedCatalog
}

func NewCatalogHandler(catalog ports.BreedCatalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListBreeds returns every breed.
//
// @Summary      List breeds
// @Tags         breeds
// @Produce      json
// @Success      200  {array}   object
// @Failure      500  {object}  errorBody
// @Router       /api/breeds [get]
func (h *CatalogHandler) ListBreeds(c echo.Context) error {
	body, err := h.catalog.GetBreeds(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, body)
}

// GetBreed returns one breed.
//
// @Summary      Get breed
// @Tags         breeds
// @Produce      json
// @Param        breed_id  path      string  true  "Breed ID"
// @Success      200       {object}  object
// @Failure      500       {object}  errorBody
// @Router       /api/breeds/{breed_id} [get]
func (h *CatalogHandler) GetBreed(c echo.Context) error {
	body, err := h.catalog.GetBreedByID(c.Request().Context(), c.Param("breed_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, body)
}

// SearchBreeds forwards q as the raw upstream query string, e.g. "q=sib".
//
// @Summary      Search breeds
// @Tags         breeds
// @Produce      json
// @Param        q    path      string  true  "Raw upstream query, e.g. q=sib"
// @Success      200  {array}   object
// @Failure      500  {object}  errorBody
// @Router       /api/breeds/search/{q} [get]
func (h *CatalogHandler) SearchBreeds(c echo.Context) error {
	body, err := h.catalog.SearchBreeds(c.Request().Context(), c.Param("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, body)
}

// ImagesByBreedID lists images of one breed.
//
// @Summary      Images by breed
// @Tags         images
// @Produce      json
// @Param        breed_id  query     string  true  "Breed ID"
// @Success      200       {array}   object
// @Failure      500       {object}  errorBody
// @Router       /api/imagesbybreedid [get]
func (h *CatalogHandler) ImagesByBreedID(c echo.Context) error {
	body, err := h.catalog.GetImagesByBreedID(c.Request().Context(), c.QueryParam("breed_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, body)
}
