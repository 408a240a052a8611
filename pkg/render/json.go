package render

import (
	"encoding/json"
	"io"

	"github.com/japaniel/poemcloud/pkg/wordcloud"
)

type jsonLayer struct {
	Name   string                `json:"name"`
	Role   string                `json:"role"`
	Words  []wordcloud.Placement `json:"words"`
	Culled []string              `json:"culled,omitempty"`
}

type jsonFrame struct {
	Viewport   wordcloud.Viewport `json:"viewport"`
	State      string             `json:"state"`
	Band       wordcloud.Band     `json:"band"`
	FontFamily string             `json:"fontFamily"`
	FadeMs     int                `json:"fadeMs"`
	Incoming   jsonLayer          `json:"incoming"`
	Outgoing   jsonLayer          `json:"outgoing"`
}

func toJSONLayer(l wordcloud.Layer, band wordcloud.Band) jsonLayer {
	out := jsonLayer{Name: l.Name, Role: l.Role.String(), Words: l.Words}
	if out.Words == nil {
		out.Words = []wordcloud.Placement{}
	}
	for _, p := range l.Words {
		if !band.Visible(p.DocY) {
			out.Culled = append(out.Culled, p.ID)
		}
	}
	return out
}

// JSON writes the frame for a browser host, which applies the placements
// and culling to its own DOM.
func JSON(w io.Writer, f Frame) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonFrame{
		Viewport:   f.Viewport,
		State:      f.State.String(),
		Band:       f.Band,
		FontFamily: f.FontFamily,
		FadeMs:     f.FadeMs,
		Incoming:   toJSONLayer(f.In, f.Band),
		Outgoing:   toJSONLayer(f.Out, f.Band),
	})
}
