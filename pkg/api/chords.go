package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/james-see/chords2maschine/pkg/chord"
	"github.com/james-see/chords2maschine/pkg/chordset"
	"github.com/james-see/chords2maschine/pkg/preview"
	"github.com/james-see/chords2maschine/pkg/theory"
)

type chordRequest struct {
	Chord string `json:"chord" binding:"required"`
	Key   string `json:"key"`
}

// ChordResponse describes one voiced chord
type ChordResponse struct {
	Symbol    string `json:"symbol"`
	Root      string `json:"root,omitempty"`
	Quality   string `json:"quality"`
	Bass      string `json:"bass,omitempty"`
	Intervals []int  `json:"intervals,omitempty"`
	Notes     []int  `json:"notes"`
	Override  bool   `json:"override"`
}

// AnalysisResponse labels a chord against a key
type AnalysisResponse struct {
	Chord      string `json:"chord"`
	Key        string `json:"key"`
	Numeral    string `json:"numeral"`
	Origin     string `json:"origin"`
	OriginKind string `json:"originKind"`
	Degree     int    `json:"degree,omitempty"`
}

type previewRequest struct {
	Chords   []string `json:"chords" binding:"required"`
	Duration string   `json:"duration"`
	Tempo    float64  `json:"tempo"`
}

// listQualities godoc
// @Summary List chord qualities
// @Description Returns the canonical quality tokens and the alias table
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/qualities [get]
func listQualities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"qualities": chord.Qualities(),
		"aliases":   chord.Aliases(),
	})
}

// describeKey godoc
// @Summary Scale and diatonic chords of a key
// @Tags analysis
// @Produce json
// @Param root path string true "Key root, e.g. Bb (URL-encode #)"
// @Param mode path string true "Mode name, major or minor"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/keys/{root}/{mode} [get]
func describeKey(c *gin.Context) {
	key, err := theory.ParseKey(c.Param("root"), c.Param("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key":    key.String(),
		"root":   key.Root,
		"mode":   key.Mode.String(),
		"scale":  theory.ScaleRoots(key),
		"chords": theory.DiatonicChords(key),
	})
}

// parseChord godoc
// @Summary Voice a chord symbol
// @Tags chords
// @Accept json
// @Produce json
// @Param request body chordRequest true "Chord symbol"
// @Success 200 {object} ChordResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/chords/parse [post]
func parseChord(c *gin.Context) {
	var req chordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, p, err := chord.Voice(req.Chord)
	if err != nil {
		respondError(c, &chordset.Error{Kind: chordset.KindInvalidChord, Chord: req.Chord, Err: err})
		return
	}
	c.JSON(http.StatusOK, describeChord(p, v))
}

func describeChord(p chord.Parsed, v chord.Voicing) ChordResponse {
	resp := ChordResponse{
		Symbol:   p.Symbol,
		Root:     p.RootName,
		Quality:  p.Quality,
		Notes:    []int(v),
		Override: p.HasOverride(),
	}
	if p.Bass != nil {
		resp.Bass = p.BassName
	}
	if !p.HasOverride() {
		resp.Intervals = []int(chord.ResolveIntervals(p.Quality))
	}
	return resp
}

// analyzeChord godoc
// @Summary Roman numeral and modal origin of a chord
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body chordRequest true "Chord symbol and key root"
// @Success 200 {object} AnalysisResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/chords/analyze [post]
func analyzeChord(c *gin.Context) {
	var req chordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Key == "" {
		req.Key = chordset.DefaultKey
	}

	key, err := theory.NewKey(req.Key, theory.Ionian)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	origin, err := theory.DetectOrigin(req.Chord, key.Root)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	numeral, ok := theory.Label(req.Chord, key)
	if !ok {
		numeral = theory.UnknownNumeral
	}
	c.JSON(http.StatusOK, AnalysisResponse{
		Chord:      req.Chord,
		Key:        key.Root,
		Numeral:    numeral,
		Origin:     origin.String(),
		OriginKind: origin.Kind.String(),
		Degree:     origin.Degree,
	})
}

// buildChordSet godoc
// @Summary Build a chord-set document
// @Description Voices up to 12 chords and returns the importable document
// @Tags chordsets
// @Accept json
// @Produce json
// @Param request body chordset.Input true "Chord set input"
// @Param download query bool false "Send as user_chord_set_NN.json attachment"
// @Param number query int false "File number for the attachment name (default 1)"
// @Success 200 {object} chordset.Document
// @Failure 400 {object} map[string]string
// @Router /api/v1/chordsets [post]
func buildChordSet(c *gin.Context) {
	var in chordset.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := chordset.Build(in)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("download") != "true" {
		c.JSON(http.StatusOK, doc)
		return
	}

	number, err := strconv.Atoi(c.DefaultQuery("number", "1"))
	if err != nil || number < 1 || number > 99 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file number"})
		return
	}
	data, err := chordset.Encode(doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", chordset.FileName(number)))
	c.Data(http.StatusOK, "application/json", data)
}

// annotateChordSet godoc
// @Summary Annotated chord-set report
// @Description Tab-separated report with the modal origin of every pad
// @Tags chordsets
// @Accept json
// @Produce plain
// @Param request body chordset.Input true "Chord set input"
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Router /api/v1/chordsets/annotate [post]
func annotateChordSet(c *gin.Context) {
	var in chordset.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := chordset.Annotate(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", chordset.AnnotatedFileName(in.Name)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

// renderPreview godoc
// @Summary Render chords as a MIDI file
// @Tags preview
// @Accept json
// @Produce audio/midi
// @Param request body previewRequest true "Chords, note value (default 2n) and tempo"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/preview [post]
func renderPreview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symbols := chordset.Symbols(req.Chords)
	voicings := make([]chord.Voicing, 0, len(symbols))
	for _, sym := range symbols {
		v, _, err := chord.Voice(sym)
		if err != nil {
			respondError(c, &chordset.Error{Kind: chordset.KindInvalidChord, Chord: sym, Err: err})
			return
		}
		voicings = append(voicings, v)
	}

	r := preview.NewRenderer()
	if req.Tempo != 0 {
		if err := r.SetTempo(req.Tempo); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	data, err := r.RenderSequence(voicings, req.Duration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=preview.mid")
	c.Data(http.StatusOK, "audio/midi", data)
}
