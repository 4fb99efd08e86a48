package handlers

import (
	"errors"

	"custos/internal/models"
	"custos/internal/repositories"
	"custos/internal/services/addressing"
	"custos/internal/services/offchain"
	"custos/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// OffchainHandler serves the VASP-to-VASP inbound endpoint and the
// payment-command query API.
type OffchainHandler struct {
	dispatch  *offchain.Dispatch
	commands  repositories.PaymentCommandRepository
	addresses addressing.Service
}

func NewOffchainHandler(dispatch *offchain.Dispatch, commands repositories.PaymentCommandRepository, addresses addressing.Service) *OffchainHandler {
	return &OffchainHandler{
		dispatch:  dispatch,
		commands:  commands,
		addresses: addresses,
	}
}

// HandleInboundCommand accepts a raw off-chain command from a counterparty
// custodian. The body is passed to the engine untouched and the engine's
// status code is returned verbatim, with the request id echoed back.
func (h *OffchainHandler) HandleInboundCommand(c *fiber.Ctx) error {
	requestID := c.Get(offchain.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	senderAddress := c.Get(offchain.HeaderSenderAddress)

	body := append([]byte(nil), c.Body()...)
	resp, status := h.dispatch.Handle(c.Context(), senderAddress, requestID, body)

	c.Set(offchain.HeaderRequestID, requestID)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(resp)
}

// GetPaymentCommand returns one payment command by reference id.
func (h *OffchainHandler) GetPaymentCommand(c *fiber.Ctx) error {
	referenceID := c.Params("reference_id")

	record, err := h.commands.GetByReferenceID(referenceID)
	if err != nil {
		if errors.Is(err, repositories.ErrCommandNotFound) {
			return response.NotFound(c, "Payment command "+referenceID+" was not found")
		}
		return response.ServerError(c, "Failed to load payment command")
	}

	return c.JSON(paymentCommandToDict(record))
}

// ListPaymentCommands returns all payment commands belonging to the
// authenticated account.
func (h *OffchainHandler) ListPaymentCommands(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	records, err := h.commands.ListByAccount(claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to load payment commands")
	}

	commands := make([]fiber.Map, 0, len(records))
	for i := range records {
		commands = append(commands, paymentCommandToDict(&records[i]))
	}

	return c.JSON(fiber.Map{"payment_commands": commands})
}

// CreateAccountIdentifier allocates a fresh receiving identifier for the
// authenticated account.
func (h *OffchainHandler) CreateAccountIdentifier(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	identifier, err := h.addresses.AccountIdentifier(claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to generate account identifier")
	}

	return c.JSON(fiber.Map{"account_identifier": identifier})
}

func paymentCommandToDict(record *models.PaymentCommand) fiber.Map {
	return fiber.Map{
		"my_actor_address": record.MyActorAddress,
		"inbound":          record.Inbound,
		"cid":              record.CID,
		"payment":          record.Payload,
	}
}
