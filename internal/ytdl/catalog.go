package ytdl

import (
	"fmt"
	"sort"
)

// Variant is one quality option offered to the requester. A zero Height with
// Audio set marks the synthetic audio-only entry.
type Variant struct {
	Height    int    `json:"height"`
	FormatID  string `json:"format_id"`
	SizeBytes int64  `json:"size_bytes"` // 0 when the extractor reported none
	Ext       string `json:"ext"`
	Audio     bool   `json:"audio"`
}

// Label renders the quality the way it appears on buttons ("720p", "audio").
func (v Variant) Label() string {
	if v.Audio {
		return "audio"
	}
	return fmt.Sprintf("%dp", v.Height)
}

// BuildVariantCatalog collapses the raw format list to one progressive
// (video+audio) entry per distinct resolution height, highest first, and
// appends the audio-only entry. Formats arrive pre-ordered by the extractor,
// so the first format seen for a height wins.
func BuildVariantCatalog(formats []Format) []Variant {
	byHeight := make(map[int]Variant)
	for _, f := range formats {
		if f.VCodec == "none" || f.ACodec == "none" {
			continue
		}
		if f.Height == nil {
			continue
		}
		h := *f.Height
		if _, seen := byHeight[h]; seen {
			continue
		}
		size := f.Filesize
		if size == 0 {
			size = f.FilesizeApprox
		}
		ext := f.Ext
		if ext == "" {
			ext = "mp4"
		}
		byHeight[h] = Variant{
			Height:    h,
			FormatID:  f.FormatID,
			SizeBytes: size,
			Ext:       ext,
		}
	}

	heights := make([]int, 0, len(byHeight))
	for h := range byHeight {
		heights = append(heights, h)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(heights)))

	catalog := make([]Variant, 0, len(heights)+1)
	for _, h := range heights {
		catalog = append(catalog, byHeight[h])
	}
	return append(catalog, Variant{Audio: true, Ext: "mp3"})
}

// HasVideoVariants reports whether the catalog offers anything beyond the
// synthetic audio entry.
func HasVideoVariants(catalog []Variant) bool {
	for _, v := range catalog {
		if !v.Audio {
			return true
		}
	}
	return false
}
