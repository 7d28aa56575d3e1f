package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/rtmsys/weighbridge_app/internal/apperrors"
	"github.com/rtmsys/weighbridge_app/internal/core/domain"
	"github.com/rtmsys/weighbridge_app/internal/middleware"
	"github.com/rtmsys/weighbridge_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// slipTemplate renders the printable weighing slip. Layout mirrors the slip
// the operators have been printing all along.
var slipTemplate = template.Must(template.New("slip").Parse(`<html>
<head>
<style>
	body { font-family: Arial, sans-serif; font-size: 11pt; color: black; }
	h1 { text-align: center; font-size: 16pt; margin-bottom: 20px; }
	table { width: 100%; border-collapse: collapse; }
	td { padding: 5px 8px; }
	.main-container > tbody > tr > td { vertical-align: top; padding: 0; }
	.info-table td.label { font-weight: bold; width: 130px; }
	.info-table td.value { text-align: right; }
	.footer-table td { padding-top: 40px; font-size: 10pt; }
</style>
</head>
<body>
<h1>Weighing Slip</h1>
<table class="header-table"><tr>
	<td><b>Date:</b> {{.Date}}</td>
	<td align="right"><b>Slip No:</b> {{.TransactionID}}</td>
</tr></table>
<hr><br>
<table class="main-container"><tr>
<td><table class="info-table">
	<tr><td class="label">Vehicle Plate No.</td><td>: {{.PlateNumber}}</td></tr>
	<tr><td class="label">Goods Type</td><td>: {{.GoodsType}}</td></tr>
	<tr><td class="label">Supplier</td><td>: {{.GoodsOrigin}}</td></tr>
	<tr><td class="label">Receiver</td><td>: {{.GoodsDestination}}</td></tr>
	<tr><td class="label">Remark</td><td>: {{.Remark}}</td></tr>
</table></td>
<td><table class="info-table">
	<tr><td class="label">Gross</td><td class="value">{{.Gross}} KG</td></tr>
	<tr><td class="label">Tare</td><td class="value">{{.Tare}} KG</td></tr>
	<tr><td class="label">Net</td><td class="value"><b>{{.Net}} KG</b></td></tr>
	<tr><td class="label">Quantity</td><td>: {{.Quantity}}</td></tr>
</table></td>
</tr></table>
<table class="footer-table"><tr>
	<td>Operator: {{.Operator}}</td>
	<td align="right">Customer Signature: _________________</td>
</tr></table>
</body>
</html>
`))

type slipData struct {
	TransactionID    string
	Date             string
	PlateNumber      string
	GoodsType        string
	GoodsOrigin      string
	GoodsDestination string
	Remark           string
	Quantity         string
	Gross            string
	Tare             string
	Net              string
	Operator         string
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func toSlipData(t *domain.Transaction, operator string) slipData {
	net := 0.0
	if t.NetWeighKg != nil {
		net = *t.NetWeighKg
	}
	return slipData{
		TransactionID:    t.TransactionID,
		Date:             t.FirstWeighAt.Format("2006/01/02 15:04:05"),
		PlateNumber:      t.PlateNumber,
		GoodsType:        orDash(t.GoodsType),
		GoodsOrigin:      orDash(t.GoodsOrigin),
		GoodsDestination: orDash(t.GoodsDestination),
		Remark:           orDash(t.Remark),
		Quantity:         orDash(t.Quantity),
		Gross:            utils.FormatWeight(t.GrossKg()),
		Tare:             utils.FormatWeight(t.TareKg()),
		Net:              utils.FormatWeight(net),
		Operator:         operator,
	}
}

// fallbackOperator appears on a slip when the acting operator cannot be
// resolved, matching the seeded account's historical display name.
const fallbackOperator = "System Admin"

// operatorName resolves the authenticated user's username for the slip footer.
func (h *weighingHandler) operatorName(c *gin.Context) string {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return fallbackOperator
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		return fallbackOperator
	}
	return user.Username
}

// getSlip renders the printable HTML slip for a transaction.
func (h *weighingHandler) getSlip(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.weighingService.GetByID(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to load transaction for slip", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render slip"})
		}
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := slipTemplate.Execute(c.Writer, toSlipData(txn, h.operatorName(c))); err != nil {
		logger.Error("Failed to render slip template", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
	}
}
