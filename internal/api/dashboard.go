package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"medifinder/internal/entity"
	"medifinder/internal/service"
)

// DashboardHandler serves the pharmacy back office: stock, orders,
// insurance partners, and notifications.
type DashboardHandler struct {
	stockService        service.StockService
	orderService        service.OrderService
	insuranceService    service.InsuranceService
	notificationService service.NotificationService
	userService         service.UserService
}

func NewDashboardHandler(stockService service.StockService, orderService service.OrderService, insuranceService service.InsuranceService, notificationService service.NotificationService, userService service.UserService) *DashboardHandler {
	return &DashboardHandler{
		stockService:        stockService,
		orderService:        orderService,
		insuranceService:    insuranceService,
		notificationService: notificationService,
		userService:         userService,
	}
}

// pharmacyID resolves the caller's pharmacy from claims, falling back to
// the users table for tokens issued before the account was linked.
func (h *DashboardHandler) pharmacyID(c echo.Context) (string, error) {
	uc, ok := claims(c)
	if !ok {
		return "", c.JSON(401, map[string]string{"error": "Invalid or expired token"})
	}
	if uc.PharmacyID != "" {
		return uc.PharmacyID, nil
	}
	id, err := h.userService.PharmacyIDForUser(c.Request().Context(), uc.UserID)
	if err != nil {
		return "", errJSON(c, err)
	}
	if id == "" {
		return "", c.JSON(404, map[string]string{"error": "Your account is not linked to a pharmacy."})
	}
	return id, nil
}

type stockRequest struct {
	MedicineID int `json:"medicineId"`
	Quantity   int `json:"quantity"`
	Price      int `json:"priceRWF"`
}

func (h *DashboardHandler) GetStock(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}

	stock, err := h.stockService.GetStock(c.Request().Context(), pharmacyID)
	if err != nil {
		return errJSON(c, err)
	}
	if stock == nil {
		stock = []entity.StockEntry{}
	}
	return c.JSON(200, stock)
}

func (h *DashboardHandler) AddStock(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}

	req := stockRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if req.MedicineID == 0 {
		return c.JSON(400, map[string]string{"error": "Medicine ID is required"})
	}

	stock, err := h.stockService.AddStock(c.Request().Context(), pharmacyID, req.MedicineID, req.Quantity, req.Price)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(201, stock)
}

func (h *DashboardHandler) UpdateStock(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}
	medicineID, err := strconv.Atoi(c.Param("medicineId"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid medicine ID"})
	}

	req := stockRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	stock, err := h.stockService.UpdateStock(c.Request().Context(), pharmacyID, medicineID, req.Quantity, req.Price)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, stock)
}

func (h *DashboardHandler) DeleteStock(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}
	medicineID, err := strconv.Atoi(c.Param("medicineId"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid medicine ID"})
	}

	stock, err := h.stockService.DeleteStock(c.Request().Context(), pharmacyID, medicineID)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, stock)
}

// GetMedicines lists the global catalog for the add-stock picker.
func (h *DashboardHandler) GetMedicines(c echo.Context) error {
	medicines, err := h.stockService.GetAllMedicines(c.Request().Context())
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, medicines)
}

// CreateMedicine adds a missing medicine to the global catalog.
func (h *DashboardHandler) CreateMedicine(c echo.Context) error {
	req := struct {
		Name                 string `json:"name"`
		Strength             string `json:"strength"`
		RequiresPrescription bool   `json:"requiresPrescription"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	medicine, err := h.stockService.CreateMedicine(c.Request().Context(), req.Name, req.Strength, req.RequiresPrescription)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(201, medicine)
}

func (h *DashboardHandler) GetOrders(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}

	orders, err := h.orderService.GetPharmacyOrders(c.Request().Context(), pharmacyID, c.QueryParam("status"))
	if err != nil {
		return errJSON(c, err)
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return c.JSON(200, orders)
}

func (h *DashboardHandler) GetOrderDetails(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}

	order, err := h.orderService.GetOrderDetails(c.Request().Context(), pharmacyID, c.Param("orderId"))
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, order)
}

func (h *DashboardHandler) UpdateOrderStatus(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}

	req := struct {
		Status string `json:"status"`
	}{}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(400, map[string]string{"error": "Status is required"})
	}

	orders, err := h.orderService.UpdateOrderStatus(c.Request().Context(), pharmacyID, c.Param("orderId"), req.Status)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, orders)
}

func (h *DashboardHandler) UpdatePrescriptionStatus(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}

	req := struct {
		PrescriptionStatus string `json:"prescriptionStatus"`
	}{}
	if err := c.Bind(&req); err != nil || req.PrescriptionStatus == "" {
		return c.JSON(400, map[string]string{"error": "Prescription status is required"})
	}

	orders, err := h.orderService.UpdatePrescriptionStatus(c.Request().Context(), pharmacyID, c.Param("orderId"), req.PrescriptionStatus)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, orders)
}

func (h *DashboardHandler) GetInsurancePartners(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}

	partners, err := h.insuranceService.GetPartners(c.Request().Context(), pharmacyID)
	if err != nil {
		return errJSON(c, err)
	}
	if partners == nil {
		partners = []entity.InsuranceType{}
	}
	return c.JSON(200, partners)
}

func (h *DashboardHandler) GetAvailableInsurance(c echo.Context) error {
	types, err := h.insuranceService.GetAllTypes(c.Request().Context())
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, types)
}

func (h *DashboardHandler) AddInsurancePartner(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}

	req := struct {
		InsuranceID int `json:"insuranceId"`
	}{}
	if err := c.Bind(&req); err != nil || req.InsuranceID == 0 {
		return c.JSON(400, map[string]string{"error": "Insurance ID is required"})
	}

	partners, err := h.insuranceService.AddPartner(c.Request().Context(), pharmacyID, req.InsuranceID)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(201, partners)
}

func (h *DashboardHandler) RemoveInsurancePartner(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}
	insuranceID, err := strconv.Atoi(c.Param("insuranceId"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid insurance ID"})
	}

	partners, err := h.insuranceService.RemovePartner(c.Request().Context(), pharmacyID, insuranceID)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, partners)
}

func (h *DashboardHandler) GetNotifications(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}

	notifications, err := h.notificationService.List(c.Request().Context(), pharmacyID)
	if err != nil {
		return errJSON(c, err)
	}
	if notifications == nil {
		notifications = []entity.Notification{}
	}
	return c.JSON(200, notifications)
}

func (h *DashboardHandler) MarkNotificationRead(c echo.Context) error {
	pharmacyID, err := h.pharmacyID(c)
	if pharmacyID == "" {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid notification ID"})
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), pharmacyID, id); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, map[string]string{"status": "read"})
}
