package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bloomcart/bloomcart/app/export"
	"github.com/bloomcart/bloomcart/app/services"
	"github.com/bloomcart/bloomcart/app/views"
	"github.com/bloomcart/bloomcart/pkg/metrics"
	"github.com/bloomcart/bloomcart/pkg/middleware"
	"github.com/bloomcart/bloomcart/pkg/response"
)

// OrderController serves the order history page and document downloads.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{orders: services.NewOrderService()}
}

type profilePage struct {
	Orders []services.OwnedOrder
}

// Profile lists the caller's orders in creation order.
func (c *OrderController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	owned, err := c.orders.ListByOwner(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load orders")
		return
	}

	if response.WantsJSON(r) {
		response.Success(w, owned)
		return
	}

	p := page(w, r, "Profile")
	p.Data = profilePage{Orders: owned}
	views.Render(w, "profile", p)
}

// DownloadDOCX streams the order as a word-processing document.
func (c *OrderController) DownloadDOCX(w http.ResponseWriter, r *http.Request) {
	doc, ok := c.document(w, r)
	if !ok {
		return
	}

	metrics.DocumentsExported.WithLabelValues("docx").Inc()
	response.Attachment(w, doc.Filename("docx"), export.MIMEDocx)
	if err := export.WriteDOCX(doc, w); err != nil {
		// Headers are already sent; nothing useful left to tell the client.
		return
	}
}

// DownloadPDF streams the order as a PDF.
func (c *OrderController) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := c.document(w, r)
	if !ok {
		return
	}

	metrics.DocumentsExported.WithLabelValues("pdf").Inc()
	response.Attachment(w, doc.Filename("pdf"), export.MIMEPDF)
	if err := export.WritePDF(doc, w); err != nil {
		return
	}
}

// document loads the requested order for the authenticated caller,
// writing the error response itself when the lookup fails.
func (c *OrderController) document(w http.ResponseWriter, r *http.Request) (export.Document, bool) {
	userID, _ := middleware.UserIDFromCtx(r)

	orderID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		response.NotFound(w)
		return export.Document{}, false
	}

	doc, err := c.orders.Document(uint(orderID), userID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
		return export.Document{}, false
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)
		return export.Document{}, false
	case err != nil:
		response.Error(w, http.StatusInternalServerError, "could not export order")
		return export.Document{}, false
	}

	return doc, true
}
