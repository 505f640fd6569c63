package api

import (
	"github.com/labstack/echo/v4"

	"medifinder/internal/entity"
	"medifinder/internal/repository"
	"medifinder/internal/service"
)

type PharmacyHandler struct {
	pharmacyService service.PharmacyService
}

func NewPharmacyHandler(pharmacyService service.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{pharmacyService: pharmacyService}
}

// Search handles the landing page search. All filters are optional; with
// none set it lists every pharmacy.
func (h *PharmacyHandler) Search(c echo.Context) error {
	filter := repository.SearchFilter{
		Q:         c.QueryParam("q"),
		Location:  c.QueryParam("loc"),
		Insurance: c.QueryParam("insurance"),
	}

	pharmacies, err := h.pharmacyService.Search(c.Request().Context(), filter)
	if err != nil {
		return errJSON(c, err)
	}
	if pharmacies == nil {
		pharmacies = []entity.Pharmacy{}
	}
	return c.JSON(200, pharmacies)
}

func (h *PharmacyHandler) GetByID(c echo.Context) error {
	pharmacy, err := h.pharmacyService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, pharmacy)
}

// ListAll returns the short listing used by the pharmacy signup form.
func (h *PharmacyHandler) ListAll(c echo.Context) error {
	summaries, err := h.pharmacyService.ListAll(c.Request().Context())
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, summaries)
}
