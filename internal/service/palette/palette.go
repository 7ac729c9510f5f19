package palette

import (
	"crypto/md5"
	"fmt"
	"math"
	"strconv"
	"strings"

	"InstaCatalog/entity"
)

// Default is used when nothing is known about the business.
func Default() entity.Palette {
	return entity.Palette{
		Primary:    "#25D366",
		Secondary:  "#128C7E",
		Accent:     "#D35525",
		Background: "#F7FBF8",
		Text:       "#1A1A1A",
	}
}

// FromName derives a stable palette from the business name.
func FromName(name string) entity.Palette {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default()
	}
	sum := md5.Sum([]byte(name))

	h := float64(sum[0]) / 255 * 360
	s := 0.45 + float64(sum[1])/255*0.35
	l := 0.35 + float64(sum[2])/255*0.2

	return build(h, s, l)
}

// FromColors builds a palette around the first usable hex colour.
// Colours that are nearly white, black or grey are skipped.
func FromColors(colors []string, name string) entity.Palette {
	for _, c := range colors {
		r, g, b, ok := parseHex(c)
		if !ok {
			continue
		}
		h, s, l := rgbToHSL(r, g, b)
		if s < 0.15 || l < 0.1 || l > 0.9 {
			continue
		}
		return build(h, clamp(s, 0.45, 0.8), clamp(l, 0.35, 0.55))
	}
	return FromName(name)
}

func build(h, s, l float64) entity.Palette {
	primary := hslToHex(h, s, l)
	p := entity.Palette{
		Primary:    primary,
		Secondary:  hslToHex(h+30, s, l),
		Accent:     hslToHex(h+180, s, l),
		Background: hslToHex(h, 0.4, 0.97),
		Text:       "#1A1A1A",
	}
	r, g, b, _ := parseHex(p.Background)
	if luminance(r, g, b) < 0.4 {
		p.Text = "#FFFFFF"
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func hslToHex(h, s, l float64) string {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return fmt.Sprintf("#%02X%02X%02X", toByte(r+m), toByte(g+m), toByte(b+m))
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp(v, 0, 1) * 255))
}

func rgbToHSL(r, g, b uint8) (h, s, l float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	maxV := math.Max(rf, math.Max(gf, bf))
	minV := math.Min(rf, math.Min(gf, bf))
	l = (maxV + minV) / 2
	if maxV == minV {
		return 0, 0, l
	}
	d := maxV - minV
	if l > 0.5 {
		s = d / (2 - maxV - minV)
	} else {
		s = d / (maxV + minV)
	}
	switch maxV {
	case rf:
		h = math.Mod((gf-bf)/d, 6)
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, l
}

// parseHex reads "#RRGGBB", "RRGGBB" or "#RGB". The short form needs the
// leading hash so plain words are not taken for colours.
func parseHex(s string) (r, g, b uint8, ok bool) {
	s = strings.TrimSpace(s)
	hash := strings.HasPrefix(s, "#")
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 && hash {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// luminance is the WCAG relative luminance of an sRGB colour.
func luminance(r, g, b uint8) float64 {
	lin := func(c uint8) float64 {
		v := float64(c) / 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(r) + 0.7152*lin(g) + 0.0722*lin(b)
}
