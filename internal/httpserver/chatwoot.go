package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Hand-off reasons accepted by the request-human endpoint.
var validHandoffReasons = map[string]bool{
	"refund":          true,
	"damaged_product": true,
	"other":           true,
}

type requestHumanRequest struct {
	ConversationID int64  `json:"conversation_id"`
	Reason         string `json:"reason,omitempty"`
}

func requestHumanHandler(relay Relay, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requestHumanRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ConversationID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversation_id is required"})
			return
		}
		if req.Reason != "" && !validHandoffReasons[req.Reason] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reason: must be one of refund, damaged_product, other"})
			return
		}
		if relay == nil || !relay.Configured() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "chat relay not configured"})
			return
		}

		ctx := c.Request.Context()
		if err := relay.UpdateAttributes(ctx, req.ConversationID, map[string]interface{}{"bot": false}); err != nil {
			logger.Printf("request-human: disable bot on conversation %d: %v", req.ConversationID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update bot status"})
			return
		}

		labels := []string{"human"}
		if req.Reason != "" {
			labels = append(labels, req.Reason)
		}
		if err := relay.AddLabels(ctx, req.ConversationID, labels); err != nil {
			// Labeling is best-effort; the hand-off already happened.
			logger.Printf("request-human: label conversation %d: %v", req.ConversationID, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "the conversation has been transferred to a human agent; someone from our team will assist you shortly",
		})
	}
}

type webhookEvent struct {
	Event        string `json:"event"`
	MessageType  string `json:"message_type"`
	Content      string `json:"content"`
	Conversation *struct {
		ID int64 `json:"id"`
	} `json:"conversation"`
	Sender *struct {
		Name string `json:"name"`
	} `json:"sender"`
}

// chatwootWebhookHandler is the log-only deployment variant: it records
// incoming customer messages and nothing else. It always answers 200 so
// the chat platform never retries delivery.
func chatwootWebhookHandler(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event webhookEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			logger.Printf("chatwoot webhook: malformed payload: %v", err)
			c.String(http.StatusOK, "OK")
			return
		}

		if event.Event != "message_created" || event.MessageType != "incoming" {
			c.String(http.StatusOK, "OK - event ignored")
			return
		}
		if event.Conversation == nil || event.Content == "" {
			c.String(http.StatusOK, "OK - incomplete payload")
			return
		}

		sender := "customer"
		if event.Sender != nil && event.Sender.Name != "" {
			sender = event.Sender.Name
		}
		logger.Printf("chatwoot webhook: conversation=%d message from %s: %s", event.Conversation.ID, sender, event.Content)
		c.String(http.StatusOK, "OK - event recorded")
	}
}

type automationWebhook struct {
	Event    string `json:"event"`
	ID       int64  `json:"id"`
	Messages []struct {
		Content     string `json:"content"`
		MessageType int    `json:"message_type"`
	} `json:"messages"`
}

type agentResponse struct {
	Answer string `json:"answer"`
}

// chatwootAdapterHandler bridges an automation-rule webhook to the external
// conversational agent: the raw payload is forwarded, and the agent's
// answer is relayed back into the conversation. Every outcome, including
// internal failure, answers 200 to prevent retry storms.
func chatwootAdapterHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Printf("chatwoot adapter: read body: %v", err)
			c.String(http.StatusOK, "OK")
			return
		}

		var webhook automationWebhook
		if err := json.Unmarshal(body, &webhook); err != nil {
			logger.Printf("chatwoot adapter: malformed payload: %v", err)
			c.String(http.StatusOK, "OK")
			return
		}

		if webhook.Event != "automation_event.message_created" {
			c.String(http.StatusOK, "OK - event ignored")
			return
		}
		if len(webhook.Messages) == 0 || webhook.Messages[0].MessageType != 0 {
			c.String(http.StatusOK, "OK - not an incoming message")
			return
		}
		if deps.AgentWebhookURL == "" {
			logger.Printf("chatwoot adapter: no agent webhook configured, dropping conversation %d", webhook.ID)
			c.String(http.StatusOK, "OK - no agent configured")
			return
		}

		httpc := deps.HTTPClient
		if httpc == nil {
			httpc = http.DefaultClient
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, deps.AgentWebhookURL, bytes.NewReader(body))
		if err != nil {
			logger.Printf("chatwoot adapter: build agent request: %v", err)
			c.String(http.StatusOK, "OK - internal error handled")
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := httpc.Do(req)
		if err != nil {
			logger.Printf("chatwoot adapter: call agent: %v", err)
			c.String(http.StatusOK, "OK - agent unreachable")
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			logger.Printf("chatwoot adapter: agent answered status %d", resp.StatusCode)
			c.String(http.StatusOK, "OK - agent error handled")
			return
		}

		var answer agentResponse
		if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
			logger.Printf("chatwoot adapter: decode agent answer: %v", err)
			c.String(http.StatusOK, "OK - agent answer unreadable")
			return
		}

		if deps.Relay != nil && deps.Relay.Configured() && answer.Answer != "" {
			if err := deps.Relay.SendMessage(c.Request.Context(), webhook.ID, answer.Answer); err != nil {
				logger.Printf("chatwoot adapter: send answer to conversation %d: %v", webhook.ID, err)
			}
		}

		c.String(http.StatusOK, "OK")
	}
}
