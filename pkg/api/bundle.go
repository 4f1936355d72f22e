package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/james-see/chords2maschine/pkg/bundle"
	"github.com/james-see/chords2maschine/pkg/chordset"
)

// BundleResponse is the bundle state with 1-based slot numbers
type BundleResponse struct {
	Current    int            `json:"current"`
	BundleMode bool           `json:"bundleMode"`
	Saved      int            `json:"saved"`
	Slots      []SlotResponse `json:"slots"`
}

// SlotResponse is a bundle slot with its 1-based number
type SlotResponse struct {
	Number int `json:"number"`
	bundle.Slot
}

func newSlotResponse(slot bundle.Slot) SlotResponse {
	return SlotResponse{Number: slot.Number(), Slot: slot}
}

type cursorRequest struct {
	Action string `json:"action" binding:"required"` // next, prev, next-available, select
	Slot   int    `json:"slot"`
}

type modeRequest struct {
	Enabled bool `json:"enabled"`
}

func newBundleResponse(s bundle.State) BundleResponse {
	slots := make([]SlotResponse, 0, len(s.Slots))
	for _, slot := range s.Slots {
		slots = append(slots, newSlotResponse(slot))
	}
	return BundleResponse{
		Current:    s.Current + 1,
		BundleMode: s.BundleMode,
		Saved:      s.SavedCount(),
		Slots:      slots,
	}
}

// slotIndex reads the 1-based :slot parameter as a 0-based index
func slotIndex(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("slot"))
	if err != nil || n < 1 || n > bundle.SlotCount {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("slot must be 1-%d", bundle.SlotCount)})
		return 0, false
	}
	return n - 1, true
}

// bundleStatus godoc
// @Summary Bundle state
// @Tags bundle
// @Produce json
// @Success 200 {object} BundleResponse
// @Router /api/v1/bundle [get]
func (s *Server) bundleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, newBundleResponse(s.bundles.State()))
}

// saveSlot godoc
// @Summary Save a chord set into a slot
// @Tags bundle
// @Accept json
// @Produce json
// @Param slot path int true "Slot number 1-16"
// @Param request body chordset.Input true "Chord set input"
// @Success 200 {object} SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/bundle/slots/{slot} [put]
func (s *Server) saveSlot(c *gin.Context) {
	index, ok := slotIndex(c)
	if !ok {
		return
	}
	var in chordset.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := s.bundles.Save(c.Request.Context(), index, in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSlotResponse(slot))
}

// clearSlot godoc
// @Summary Empty a slot
// @Tags bundle
// @Param slot path int true "Slot number 1-16"
// @Success 204
// @Router /api/v1/bundle/slots/{slot} [delete]
func (s *Server) clearSlot(c *gin.Context) {
	index, ok := slotIndex(c)
	if !ok {
		return
	}
	if err := s.bundles.ClearSlot(c.Request.Context(), index); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// clearAll godoc
// @Summary Empty every slot
// @Tags bundle
// @Success 204
// @Router /api/v1/bundle/slots [delete]
func (s *Server) clearAll(c *gin.Context) {
	if err := s.bundles.ClearAll(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// moveCursor godoc
// @Summary Move the slot cursor
// @Tags bundle
// @Accept json
// @Produce json
// @Param request body cursorRequest true "next, prev, next-available or select"
// @Success 200 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Router /api/v1/bundle/cursor [post]
func (s *Server) moveCursor(c *gin.Context) {
	var req cursorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var (
		cur int
		err error
	)
	switch req.Action {
	case "next":
		cur, err = s.bundles.Advance(ctx)
	case "prev":
		cur, err = s.bundles.Retreat(ctx)
	case "next-available":
		cur, err = s.bundles.AdvanceToNextAvailable(ctx)
	case "select":
		cur, err = s.bundles.Select(ctx, req.Slot-1)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown action %q", req.Action)})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current": cur + 1})
}

// setBundleMode godoc
// @Summary Turn bundle mode on or off
// @Tags bundle
// @Accept json
// @Param request body modeRequest true "Bundle mode flag"
// @Success 200 {object} map[string]bool
// @Router /api/v1/bundle/mode [put]
func (s *Server) setBundleMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.bundles.SetBundleMode(c.Request.Context(), req.Enabled); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bundleMode": req.Enabled})
}

// validateBundle godoc
// @Summary Check that all 16 slots are saved
// @Tags bundle
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/bundle/validate [get]
func (s *Server) validateBundle(c *gin.Context) {
	complete, missing := s.bundles.ValidateComplete()
	if missing == nil {
		missing = []int{}
	}
	c.JSON(http.StatusOK, gin.H{"complete": complete, "missing": missing})
}

// exportBundle godoc
// @Summary Download the bundle archive
// @Description Zip of user_chord_set_01.json to user_chord_set_16.json; refused until every slot is saved
// @Tags bundle
// @Produce application/zip
// @Success 200 {file} binary
// @Failure 412 {object} map[string]interface{}
// @Router /api/v1/bundle/export [get]
func (s *Server) exportBundle(c *gin.Context) {
	data, err := s.bundles.Export()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=chord_sets.zip")
	c.Data(http.StatusOK, "application/zip", data)
}
