package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/scope"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/types"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// ExportHandler produces the downloadable fleet roster
type ExportHandler struct {
	registry *fleet.Registry
}

// NewExportHandler creates a new export handler
func NewExportHandler(registry *fleet.Registry) *ExportHandler {
	return &ExportHandler{registry: registry}
}

const rosterSheet = "Devices"

var rosterHeader = []string{
	"Device ID", "Name", "Type", "Location", "Status", "Online",
	"Locked", "Firmware", "OS", "Battery %", "Last Seen", "Activated At",
}

// ExportRoster handles GET /devices/export
// @Summary      Export the fleet roster
// @Description  Downloads the tenant's devices as an xlsx workbook with derived liveness
// @Tags         devices
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      500  {object}  types.ErrorResponse
// @Router       /devices/export [get]
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	ctx := c.Request.Context()

	devices, err := h.registry.List(ctx, scope.CompanyID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		writeError(c, err)
		return
	}
	if err := f.SetSheetRow(rosterSheet, "A1", &rosterHeader); err != nil {
		writeError(c, err)
		return
	}

	now := time.Now()
	for i, d := range devices {
		row := []any{
			d.DeviceID, d.Name, d.Type, d.Location, string(d.Status), d.Online(now),
			d.Locked, d.FirmwareVersion, d.OSVersion, cellInt(d.BatteryLevel),
			cellTime(d.LastSeen), cellTime(d.ActivatedAt),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			writeError(c, err)
			return
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "export_failed",
			Message: err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("devices-%s.xlsx", now.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func cellInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func cellTime(t *time.Time) any {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
