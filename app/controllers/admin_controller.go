package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	appgraphql "github.com/bloomcart/bloomcart/app/graphql"
	"github.com/bloomcart/bloomcart/app/repositories"
	"github.com/bloomcart/bloomcart/pkg/response"
	"github.com/bloomcart/bloomcart/pkg/ws"
)

// AdminController serves the privileged surfaces: the GraphQL data API
// and the live order feed. Every route using it sits behind the admin
// role check.
type AdminController struct {
	schema graphql.Schema
	hub    *ws.Hub
}

func NewAdminController(hub *ws.Hub) (*AdminController, error) {
	schema, err := appgraphql.NewSchema(
		repositories.NewFlowerRepository(),
		repositories.NewOrderRepository(),
	)
	if err != nil {
		return nil, err
	}
	return &AdminController{schema: schema, hub: hub}, nil
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// GraphQL executes one GraphQL request. Resolver errors come back in the
// standard errors array with HTTP 200, per GraphQL convention.
func (c *AdminController) GraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest

	switch r.Method {
	case http.MethodGet:
		req.Query = r.URL.Query().Get("query")
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid GraphQL request body")
			return
		}
	}

	if req.Query == "" {
		response.Error(w, http.StatusBadRequest, "missing GraphQL query")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         c.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result) //nolint:errcheck
}

// LiveFeed upgrades the connection into the order broadcast hub.
func (c *AdminController) LiveFeed(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, c.hub)
}
