package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type listProductsInput struct {
	Name        string `json:"name,omitempty" jsonschema:"Filter products whose name contains this text (case-insensitive)."`
	Description string `json:"description,omitempty" jsonschema:"Filter products whose description contains this text (case-insensitive)."`
}

type getProductInput struct {
	ProductID int64 `json:"product_id" jsonschema:"Identifier of the product to inspect."`
}

type createCartInput struct{}

type addToCartInput struct {
	CartID           string `json:"cart_id" jsonschema:"Cart identifier: the numeric id or the cart UUID, as a string."`
	ProductVariantID int64  `json:"product_variant_id" jsonschema:"Identifier of the product variant to add."`
	Qty              int    `json:"qty" jsonschema:"Units to add; must be greater than zero."`
	ConversationID   int64  `json:"conversation_id,omitempty" jsonschema:"Chatwoot conversation id for interest labeling; omit when not in a chat."`
}

type getCartInput struct {
	CartID string `json:"cart_id" jsonschema:"Cart identifier: the numeric id or the cart UUID, as a string."`
}

type updateCartItemInput struct {
	CartID string `json:"cart_id" jsonschema:"Cart identifier: the numeric id or the cart UUID, as a string."`
	ItemID int64  `json:"item_id" jsonschema:"Identifier of the cart line to change."`
	Qty    int    `json:"qty" jsonschema:"New absolute quantity; must be greater than zero."`
}

type removeFromCartInput struct {
	CartID string `json:"cart_id" jsonschema:"Cart identifier: the numeric id or the cart UUID, as a string."`
	ItemID int64  `json:"item_id" jsonschema:"Identifier of the cart line to remove."`
}

type getOrCreateClientInput struct {
	Name  string `json:"name" jsonschema:"Customer's full name."`
	Email string `json:"email" jsonschema:"Customer's email address; identifies the client."`
	Phone string `json:"phone,omitempty" jsonschema:"Customer's phone number, if known."`
}

type requestHumanInput struct {
	ConversationID int64  `json:"conversation_id" jsonschema:"Chatwoot conversation to hand off to a human agent."`
	Reason         string `json:"reason,omitempty" jsonschema:"Hand-off reason: refund, damaged_product or other."`
}

func (r *registry) registerStoreTools(srv *mcpsdk.Server) {
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "list_products",
		Description: "List available products in the catalog, optionally filtered by name or description.",
	}, r.listProducts)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "get_product_details",
		Description: "Get full details of one product, including its variants with stock, color and size.",
	}, r.getProduct)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "create_cart",
		Description: "Create a new empty shopping cart and return its identifiers.",
	}, r.createCart)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "add_to_cart",
		Description: "Add units of a product variant to a cart. Adding a variant already in the cart merges quantities.",
	}, r.addToCart)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "get_cart",
		Description: "Get the contents of a cart: its lines with product details, the total and the line count.",
	}, r.getCart)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "update_cart_item",
		Description: "Set the absolute quantity of an existing cart line.",
	}, r.updateCartItem)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "remove_from_cart",
		Description: "Remove a line from a cart entirely.",
	}, r.removeFromCart)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "get_or_create_client",
		Description: "Look up a client by email, creating the client and an active cart when missing. Returns the session: client id, cart id and cart status.",
	}, r.getOrCreateClient)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "request_human_agent",
		Description: "Transfer the conversation to a human agent, disabling the bot. Use when the customer asks for a person or reports a refund or damaged product.",
	}, r.requestHuman)
}

func (r *registry) listProducts(ctx context.Context, _ *mcpsdk.CallToolRequest, in listProductsInput) (*mcpsdk.CallToolResult, any, error) {
	query := url.Values{}
	if in.Name != "" {
		query.Set("name", in.Name)
	}
	if in.Description != "" {
		query.Set("description", in.Description)
	}
	path := "/products"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	envelope, err := r.callREST(ctx, http.MethodGet, path, nil)
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(fmt.Sprintf("%s\n\n%s", envelope.Message, prettyJSON(envelope.Data))), nil, nil
}

func (r *registry) getProduct(ctx context.Context, _ *mcpsdk.CallToolRequest, in getProductInput) (*mcpsdk.CallToolResult, any, error) {
	envelope, err := r.callREST(ctx, http.MethodGet, fmt.Sprintf("/products/%d", in.ProductID), nil)
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult("Product details:\n\n" + prettyJSON(envelope.Data)), nil, nil
}

func (r *registry) createCart(ctx context.Context, _ *mcpsdk.CallToolRequest, _ createCartInput) (*mcpsdk.CallToolResult, any, error) {
	envelope, err := r.callREST(ctx, http.MethodPost, "/carts", nil)
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(fmt.Sprintf("%s\n\n%s", envelope.Message, prettyJSON(envelope.Data))), nil, nil
}

func (r *registry) addToCart(ctx context.Context, _ *mcpsdk.CallToolRequest, in addToCartInput) (*mcpsdk.CallToolResult, any, error) {
	cartID := strings.TrimSpace(in.CartID)
	if cartID == "" {
		return errorResult(fmt.Errorf("cart_id is required")), nil, nil
	}

	payload := map[string]interface{}{
		"product_variant_id": in.ProductVariantID,
		"qty":                in.Qty,
	}
	if in.ConversationID != 0 {
		payload["conversation_id"] = in.ConversationID
	}

	envelope, err := r.callREST(ctx, http.MethodPost, "/carts/"+url.PathEscape(cartID)+"/items", payload)
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(fmt.Sprintf("%s\n\n%s", envelope.Message, prettyJSON(envelope.Data))), nil, nil
}

func (r *registry) getCart(ctx context.Context, _ *mcpsdk.CallToolRequest, in getCartInput) (*mcpsdk.CallToolResult, any, error) {
	cartID := strings.TrimSpace(in.CartID)
	if cartID == "" {
		return errorResult(fmt.Errorf("cart_id is required")), nil, nil
	}

	envelope, err := r.callREST(ctx, http.MethodGet, "/carts/"+url.PathEscape(cartID), nil)
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult("Cart contents:\n\n" + prettyJSON(envelope.Data)), nil, nil
}

func (r *registry) updateCartItem(ctx context.Context, _ *mcpsdk.CallToolRequest, in updateCartItemInput) (*mcpsdk.CallToolResult, any, error) {
	cartID := strings.TrimSpace(in.CartID)
	if cartID == "" {
		return errorResult(fmt.Errorf("cart_id is required")), nil, nil
	}

	path := fmt.Sprintf("/carts/%s/items/%d", url.PathEscape(cartID), in.ItemID)
	envelope, err := r.callREST(ctx, http.MethodPatch, path, map[string]interface{}{"qty": in.Qty})
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(fmt.Sprintf("%s\n\n%s", envelope.Message, prettyJSON(envelope.Data))), nil, nil
}

func (r *registry) removeFromCart(ctx context.Context, _ *mcpsdk.CallToolRequest, in removeFromCartInput) (*mcpsdk.CallToolResult, any, error) {
	cartID := strings.TrimSpace(in.CartID)
	if cartID == "" {
		return errorResult(fmt.Errorf("cart_id is required")), nil, nil
	}

	path := fmt.Sprintf("/carts/%s/items/%d", url.PathEscape(cartID), in.ItemID)
	envelope, err := r.callREST(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(envelope.Message), nil, nil
}

func (r *registry) getOrCreateClient(ctx context.Context, _ *mcpsdk.CallToolRequest, in getOrCreateClientInput) (*mcpsdk.CallToolResult, any, error) {
	payload := map[string]interface{}{
		"name":  in.Name,
		"email": in.Email,
	}
	if in.Phone != "" {
		payload["phone"] = in.Phone
	}

	envelope, err := r.callREST(ctx, http.MethodPost, "/clients/get-or-create", payload)
	if err != nil {
		return errorResult(err), nil, nil
	}
	// The session endpoint answers the session object directly, without the
	// message/data envelope.
	return textResult("Client session:\n\n" + prettyJSON(envelope.raw)), nil, nil
}

func (r *registry) requestHuman(ctx context.Context, _ *mcpsdk.CallToolRequest, in requestHumanInput) (*mcpsdk.CallToolResult, any, error) {
	payload := map[string]interface{}{"conversation_id": in.ConversationID}
	if in.Reason != "" {
		payload["reason"] = in.Reason
	}

	envelope, err := r.callREST(ctx, http.MethodPost, "/chatwoot/request-human", payload)
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(envelope.Message), nil, nil
}
