package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"cartbridge/internal/chatwoot"
)

var errRelayNotConfigured = errors.New("chat relay not configured")

type sendMessageInput struct {
	ConversationID int64  `json:"conversation_id" jsonschema:"Chatwoot conversation to post the message in."`
	Message        string `json:"message" jsonschema:"Message text to send to the customer."`
}

type addLabelsInput struct {
	ConversationID int64    `json:"conversation_id" jsonschema:"Chatwoot conversation to label."`
	Labels         []string `json:"labels" jsonschema:"Labels to attach; they are normalized to lowercase ASCII."`
}

type updateStatusInput struct {
	ConversationID int64  `json:"conversation_id" jsonschema:"Chatwoot conversation to update."`
	Status         string `json:"status" jsonschema:"New status: open, resolved or pending."`
}

func (r *registry) registerRelayTools(srv *mcpsdk.Server) {
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "send_chatwoot_message",
		Description: "Send an outgoing message to a Chatwoot conversation on behalf of the shop.",
	}, r.sendMessage)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "add_conversation_labels",
		Description: "Attach labels to a Chatwoot conversation for later segmentation.",
	}, r.addLabels)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "update_conversation_status",
		Description: "Change a Chatwoot conversation's status to open, resolved or pending.",
	}, r.updateStatus)
}

func (r *registry) sendMessage(ctx context.Context, _ *mcpsdk.CallToolRequest, in sendMessageInput) (*mcpsdk.CallToolResult, any, error) {
	if r.relay == nil || !r.relay.Configured() {
		return errorResult(errRelayNotConfigured), nil, nil
	}
	if in.ConversationID == 0 || in.Message == "" {
		return errorResult(errors.New("conversation_id and message are required")), nil, nil
	}

	if err := r.relay.SendMessage(ctx, in.ConversationID, in.Message); err != nil {
		r.logger.Printf("mcp: send message to conversation %d: %v", in.ConversationID, err)
		return errorResult(err), nil, nil
	}
	return textResult(fmt.Sprintf("Message sent to conversation #%d", in.ConversationID)), nil, nil
}

func (r *registry) addLabels(ctx context.Context, _ *mcpsdk.CallToolRequest, in addLabelsInput) (*mcpsdk.CallToolResult, any, error) {
	if r.relay == nil || !r.relay.Configured() {
		return errorResult(errRelayNotConfigured), nil, nil
	}
	if in.ConversationID == 0 || len(in.Labels) == 0 {
		return errorResult(errors.New("conversation_id and labels are required")), nil, nil
	}

	labels := make([]string, 0, len(in.Labels))
	for _, l := range in.Labels {
		if n := chatwoot.NormalizeLabel(l); n != "" {
			labels = append(labels, n)
		}
	}
	if len(labels) == 0 {
		return errorResult(errors.New("no usable labels after normalization")), nil, nil
	}

	if err := r.relay.AddLabels(ctx, in.ConversationID, labels); err != nil {
		r.logger.Printf("mcp: label conversation %d: %v", in.ConversationID, err)
		return errorResult(err), nil, nil
	}
	return textResult("Labels added: " + strings.Join(labels, ", ")), nil, nil
}

func (r *registry) updateStatus(ctx context.Context, _ *mcpsdk.CallToolRequest, in updateStatusInput) (*mcpsdk.CallToolResult, any, error) {
	if r.relay == nil || !r.relay.Configured() {
		return errorResult(errRelayNotConfigured), nil, nil
	}
	if in.ConversationID == 0 {
		return errorResult(errors.New("conversation_id is required")), nil, nil
	}
	if !chatwoot.ValidStatus(in.Status) {
		return errorResult(errors.New("invalid status: must be one of open, resolved, pending")), nil, nil
	}

	if err := r.relay.UpdateStatus(ctx, in.ConversationID, in.Status); err != nil {
		r.logger.Printf("mcp: update status of conversation %d: %v", in.ConversationID, err)
		return errorResult(err), nil, nil
	}
	return textResult("Conversation status updated to: " + in.Status), nil, nil
}
