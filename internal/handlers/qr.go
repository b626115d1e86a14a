package handlers

import (
	"log"
	"time"

	"ezpay/internal/emvqr"
	domainErrors "ezpay/internal/errors"
	"ezpay/internal/middleware"
	qrsvc "ezpay/internal/services/qr"
	"ezpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type QRHandler struct {
	qrService *qrsvc.Service
}

func NewQRHandler(qrService *qrsvc.Service) *QRHandler {
	return &QRHandler{qrService: qrService}
}

type generateRequest struct {
	Amount  string `json:"amount"`
	Message string `json:"message"`
}

type validateRequest struct {
	QRContent string `json:"qrContent"`
}

type debugRequest struct {
	QRContent     string `json:"qrContent"`
	TransactionID string `json:"transactionId"`
}

// transactionResponse is the metadata view: never exposes bank account
// details.
type transactionResponse struct {
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount"`
	Message       string `json:"message"`
	ExpireAt      int64  `json:"expireAt"`
	Used          bool   `json:"used"`
	Consumable    bool   `json:"consumable"`
}

// GenerateQR creates a transaction with the configured TTL and returns
// its id and signed TLV content.
func (h *QRHandler) GenerateQR(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	result, err := h.qrService.GenerateQR(c.Context(), middleware.CallerKey(c), req.Amount, req.Message)
	if err != nil {
		if de, ok := domainErrors.AsDomain(err); ok {
			return response.Error(c, domainStatus(de), de.Message)
		}
		log.Printf("QR generation failed: %v", err)
		return response.ServerError(c, "failed to generate QR")
	}
	return response.Success(c, "QR generated", result)
}

// ValidateQR runs the validate-and-consume protocol on submitted content.
// Rejections are normal responses, not errors.
func (h *QRHandler) ValidateQR(c *fiber.Ctx) error {
	var req validateRequest
	if err := c.BodyParser(&req); err != nil || req.QRContent == "" {
		return response.BadRequest(c, "qrContent is required")
	}

	result, err := h.qrService.ValidateAndMark(c.Context(), req.QRContent, middleware.CallerKey(c))
	if err != nil {
		log.Printf("QR validation failed: %v", err)
		return response.ServerError(c, "validation failed")
	}
	return response.Success(c, "validation result", result)
}

// GetImage regenerates the content for a stored transaction and renders
// it as a PNG.
func (h *QRHandler) GetImage(c *fiber.Ctx) error {
	tx, err := h.qrService.GetTransaction(c.Context(), c.Params("transactionId"))
	if err != nil {
		if de, ok := domainErrors.AsDomain(err); ok {
			return response.Error(c, domainStatus(de), de.Message)
		}
		return response.ServerError(c, "failed to load transaction")
	}

	content, err := h.qrService.BuildContent(tx)
	if err != nil {
		log.Printf("content rebuild for %s failed: %v", tx.TransactionID, err)
		return response.ServerError(c, "failed to build QR content")
	}
	png, err := qrsvc.RenderPNG(content)
	if err != nil {
		log.Printf("image render for %s failed: %v", tx.TransactionID, err)
		return response.ServerError(c, "failed to render QR image")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// GetTransaction returns non-sensitive metadata, e.g. so a UI can show
// the full message when the payload only carried a snippet.
func (h *QRHandler) GetTransaction(c *fiber.Ctx) error {
	tx, err := h.qrService.GetTransaction(c.Context(), c.Params("transactionId"))
	if err != nil {
		if de, ok := domainErrors.AsDomain(err); ok {
			return response.Error(c, domainStatus(de), de.Message)
		}
		return response.ServerError(c, "failed to load transaction")
	}
	return response.Success(c, "transaction", transactionResponse{
		TransactionID: tx.TransactionID,
		Amount:        tx.Amount,
		Message:       tx.Message,
		ExpireAt:      tx.ExpireAt.Unix(),
		Used:          tx.Used,
		Consumable:    tx.Consumable(time.Now()),
	})
}

// DebugParse reports everything the parser can say about a content
// string: parsed fields, CRC status, extracted id and a diagnostics list.
// Accepts either content or a transaction id to rebuild it from.
func (h *QRHandler) DebugParse(c *fiber.Ctx) error {
	var req debugRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	content := qrsvc.Sanitize(req.QRContent)
	if content == "" {
		if req.TransactionID == "" {
			return response.BadRequest(c, "provide either qrContent or transactionId")
		}
		tx, err := h.qrService.GetTransaction(c.Context(), req.TransactionID)
		if err != nil {
			if de, ok := domainErrors.AsDomain(err); ok {
				return response.Error(c, domainStatus(de), de.Message)
			}
			return response.ServerError(c, "failed to load transaction")
		}
		content, err = h.qrService.BuildContent(tx)
		if err != nil {
			return response.ServerError(c, "failed to build QR content")
		}
	}

	parsed := map[string]interface{}{}
	if t, err := emvqr.Parse(content); err == nil {
		for _, tag := range t.Tags() {
			value, _ := t.Get(tag)
			parsed[tag] = value
			if sub, err := emvqr.Parse(value); err == nil && sub.Len() > 0 && len(value) >= 4 {
				subMap := map[string]string{}
				for _, st := range sub.Tags() {
					subMap[st], _ = sub.Get(st)
				}
				parsed[tag+"_parsed"] = subMap
			}
		}
	}

	extracted, _ := qrsvc.ExtractTransactionID(content)
	return response.Success(c, "debug info", fiber.Map{
		"crcValid":      qrsvc.CheckContent(content) == nil,
		"parsed":        parsed,
		"transactionId": extracted,
		"content":       content,
		"diagnostics":   emvqr.Analyze(content),
	})
}

func domainStatus(de *domainErrors.DomainError) int {
	switch de.Code {
	case "RATE_LIMITED":
		return fiber.StatusTooManyRequests
	case "UNKNOWN_TRANSACTION":
		return fiber.StatusNotFound
	case "INVALID_CREDENTIALS":
		return fiber.StatusUnauthorized
	case "USER_EXISTS":
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}
