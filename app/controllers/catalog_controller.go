package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/services"
	"github.com/bloomcart/bloomcart/app/views"
	"github.com/bloomcart/bloomcart/pkg/bind"
	"github.com/bloomcart/bloomcart/pkg/middleware"
	"github.com/bloomcart/bloomcart/pkg/response"
)

// CatalogController serves the storefront: browsing on GET, order
// placement on POST.
type CatalogController struct {
	catalog *services.CatalogService
	orders  *services.OrderService
}

func NewCatalogController() *CatalogController {
	return &CatalogController{
		catalog: services.NewCatalogService(),
		orders:  services.NewOrderService(),
	}
}

type catalogPage struct {
	Flowers []models.Flower
	Search  string
	Length  string
	Price   string
}

// Index lists the catalog, applying any of the three filters. Malformed
// range filters are surfaced as field errors, never silently dropped.
func (c *CatalogController) Index(w http.ResponseWriter, r *http.Request) {
	query := services.CatalogQuery{
		Search: r.URL.Query().Get("search"),
		Length: r.URL.Query().Get("length"),
		Price:  r.URL.Query().Get("price"),
	}

	flowers, err := c.catalog.Search(query)
	if err != nil {
		if ve, ok := services.AsValidation(err); ok {
			if response.WantsJSON(r) {
				response.ValidationError(w, ve.Fields)
				return
			}
			p := page(w, r, "Catalog")
			p.Errors = ve.Fields
			p.Data = catalogPage{Search: query.Search, Length: query.Length, Price: query.Price}
			views.RenderStatus(w, http.StatusUnprocessableEntity, "index", p)
			return
		}
		response.Error(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	if response.WantsJSON(r) {
		response.Success(w, flowers)
		return
	}

	p := page(w, r, "Catalog")
	p.Data = catalogPage{
		Flowers: flowers,
		Search:  query.Search,
		Length:  query.Length,
		Price:   query.Price,
	}
	views.Render(w, "index", p)
}

// Place handles checkout. The route guard guarantees an authenticated
// caller; anonymous requests never reach this handler.
func (c *CatalogController) Place(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	var in services.PlaceOrderInput
	if isJSONBody(r) {
		if _, err := bind.JSON(r, &in); err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			response.Error(w, http.StatusBadRequest, "malformed form body")
			return
		}
		in = formOrderInput(r)
	}

	order, err := c.orders.Place(userID, in)
	if err != nil {
		if ve, ok := services.AsValidation(err); ok {
			if response.WantsJSON(r) {
				response.ValidationError(w, ve.Fields)
				return
			}
			c.rerenderWithErrors(w, r, ve.Fields)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not place order")
		return
	}

	if response.WantsJSON(r) {
		response.Created(w, order)
		return
	}

	flash(w, r, "success", "Your order has been placed.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// formOrderInput converts the browser checkout form into the service
// input. Selected flowers arrive as "flowers" checkbox values with a
// matching "quantity_<id>" field each.
func formOrderInput(r *http.Request) services.PlaceOrderInput {
	in := services.PlaceOrderInput{
		Recipient: r.PostFormValue("recipient"),
		Address:   r.PostFormValue("address"),
		Message:   r.PostFormValue("message"),
	}

	for _, raw := range r.PostForm["flowers"] {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			continue
		}
		// A missing or malformed quantity becomes 0, which the service
		// rejects rather than silently accepting.
		qty, _ := strconv.Atoi(r.PostFormValue("quantity_" + raw))
		in.Items = append(in.Items, services.ItemInput{FlowerID: uint(id), Quantity: qty})
	}

	return in
}

func (c *CatalogController) rerenderWithErrors(w http.ResponseWriter, r *http.Request, errs map[string]string) {
	flowers, err := c.catalog.Search(services.CatalogQuery{})
	if err != nil {
		flowers = nil
	}

	p := page(w, r, "Catalog")
	p.Errors = errs
	p.Data = catalogPage{Flowers: flowers}
	views.RenderStatus(w, http.StatusUnprocessableEntity, "index", p)
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
