package router

import (
	"encoding/json"

	"github.com/hashchat-ai/ledger-assistant/internal/llm"
)

// toolDefinitions is the closed set of operations the model may select.
// The schemas mirror the request shapes in internal/model.
var toolDefinitions = []llm.ToolDefinition{
	{
		Name:        "createAccount",
		Description: "Create a new Hedera account funded by the operator. Returns the new account id and its key pair.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {},
			"required": []
		}`),
	},
	{
		Name:        "createToken",
		Description: "Create a new fungible token with the operator as treasury.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Token name"},
				"symbol": {"type": "string", "description": "Token symbol"},
				"initialSupply": {"type": "integer", "minimum": 0, "description": "Initial supply in smallest units"},
				"decimals": {"type": "integer", "minimum": 0, "maximum": 18, "description": "Decimal places, defaults to 2"}
			},
			"required": ["name", "symbol", "initialSupply"]
		}`),
	},
	{
		Name:        "transferTokens",
		Description: "Transfer fungible tokens from the operator to another account.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"tokenId": {"type": "string", "description": "Token id, e.g. 0.0.1234"},
				"toAccountId": {"type": "string", "description": "Recipient account id, e.g. 0.0.5678"},
				"amount": {"type": "integer", "minimum": 1, "description": "Amount of token units to transfer"}
			},
			"required": ["tokenId", "toAccountId", "amount"]
		}`),
	},
	{
		Name:        "transferHbar",
		Description: "Transfer HBAR from the operator to another account. Amount is in tinybar.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"toAccountId": {"type": "string", "description": "Recipient account id, e.g. 0.0.5678"},
				"amount": {"type": "integer", "minimum": 1, "description": "Amount in tinybar"}
			},
			"required": ["toAccountId", "amount"]
		}`),
	},
	{
		Name:        "checkBalance",
		Description: "Check the HBAR and token balances of an account. Use this for ANY balance inquiry.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"accountId": {"type": "string", "description": "Account id to query, e.g. 0.0.1234"}
			},
			"required": ["accountId"]
		}`),
	},
}
