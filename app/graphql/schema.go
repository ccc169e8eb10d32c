// Package graphql defines the admin data API schema: catalog queries and
// mutations exposed to privileged callers on POST /graphql.
package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/repositories"
	gql "github.com/bloomcart/bloomcart/pkg/graphql"
)

var flowerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Flower",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.Int},
		"name":     &graphql.Field{Type: graphql.String},
		"imageUrl": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if f, ok := p.Source.(models.Flower); ok {
					return f.ImageURL, nil
				}
				return nil, nil
			},
		},
		"length": &graphql.Field{Type: graphql.Float},
		"price":  &graphql.Field{Type: graphql.Float},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		// ID lives on the embedded model, out of reach of the default
		// field resolver.
		"id": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if o, ok := p.Source.(models.Order); ok {
					return int(o.ID), nil
				}
				return nil, nil
			},
		},
		"recipient": &graphql.Field{Type: graphql.String},
		"address":   &graphql.Field{Type: graphql.String},
		"selection": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if o, ok := p.Source.(models.Order); ok {
					return o.Selection(), nil
				}
				return nil, nil
			},
		},
		"message": &graphql.Field{Type: graphql.String},
		"userId": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if o, ok := p.Source.(models.Order); ok {
					return int(o.UserID), nil
				}
				return nil, nil
			},
		},
	},
})

// NewSchema builds the executable admin schema over the given
// repositories.
func NewSchema(flowers *repositories.FlowerRepository, orders *repositories.OrderRepository) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"allFlowers": &graphql.Field{
				Type: graphql.NewList(flowerType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					list, err := flowers.All()
					if err != nil {
						return nil, err
					}
					return list, nil
				},
			},
			// Unscoped: this endpoint is reachable only with the admin
			// role.
			"allOrders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					list, err := orders.All()
					if err != nil {
						return nil, err
					}
					return list, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createFlower": &graphql.Field{
				Type: flowerType,
				Args: graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"imageUrl": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"length":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"price":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					flower := models.Flower{
						Name:     p.Args["name"].(string),
						ImageURL: p.Args["imageUrl"].(string),
						Length:   p.Args["length"].(float64),
						Price:    p.Args["price"].(float64),
					}
					if err := validateFlower(flower.Name, flower.Length, flower.Price); err != nil {
						return nil, err
					}
					if err := flowers.Create(&flower); err != nil {
						return nil, err
					}
					return flower, nil
				},
			},
			"updateFlower": &graphql.Field{
				Type: flowerType,
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"name":     &graphql.ArgumentConfig{Type: graphql.String},
					"imageUrl": &graphql.ArgumentConfig{Type: graphql.String},
					"length":   &graphql.ArgumentConfig{Type: graphql.Float},
					"price":    &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					flower, err := flowers.FindByID(uint(p.Args["id"].(int)))
					if err != nil {
						// Unknown id is a soft null, not an error.
						return nil, nil
					}

					changes := map[string]interface{}{}
					name, length, price := flower.Name, flower.Length, flower.Price
					if v, ok := p.Args["name"].(string); ok {
						changes["name"] = v
						name = v
					}
					if v, ok := p.Args["imageUrl"].(string); ok {
						changes["image_url"] = v
					}
					if v, ok := p.Args["length"].(float64); ok {
						changes["length"] = v
						length = v
					}
					if v, ok := p.Args["price"].(float64); ok {
						changes["price"] = v
						price = v
					}
					if err := validateFlower(name, length, price); err != nil {
						return nil, err
					}

					if len(changes) > 0 {
						if err := flowers.Update(&flower, changes); err != nil {
							return nil, err
						}
					}
					return flower, nil
				},
			},
			"deleteFlower": &graphql.Field{
				Type: graphql.NewObject(graphql.ObjectConfig{
					Name: "DeleteFlowerResult",
					Fields: graphql.Fields{
						"success": &graphql.Field{Type: graphql.Boolean},
					},
				}),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ok, err := flowers.Delete(uint(p.Args["id"].(int)))
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{"success": ok}, nil
				},
			},
		},
	})

	return gql.NewSchema(query, mutation)
}

// validateFlower enforces the catalog invariants the storage layer does
// not: non-empty name, length > 0, price >= 0.
func validateFlower(name string, length, price float64) error {
	if name == "" {
		return errors.New("name must not be empty")
	}
	if length <= 0 {
		return errors.New("length must be greater than zero")
	}
	if price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}
