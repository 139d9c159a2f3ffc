/*
 * plot.go, part of gorif.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package clusterplot draws the results of a clustering run with gonum/plot.
package clusterplot

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Side is the default side of the (square) plots saved by Save.
const Side = 5 * vg.Inch

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//Save writes p to filename. The format is taken from the extension
//(png, svg, pdf, eps, jpg, tif); a name without one gets ".png".
func Save(p *plot.Plot, filename string) error {
	if p == nil {
		return fmt.Errorf("clusterplot: Save: nil plot")
	}
	if filepath.Ext(filename) == "" {
		filename += ".png"
	}
	if err := p.Save(Side, Side, filename); err != nil {
		return fmt.Errorf("clusterplot: Save: %w", err)
	}
	return nil
}

//hsv takes hue (0-360), v and s (0-1) and returns the corresponding opaque color.
func hsv(h, v, s float64) color.RGBA {
	conv := func(x float64) uint8 { return uint8(math.Round(255 * x)) }
	if s == 0 {
		return color.RGBA{R: conv(v), G: conv(v), B: conv(v), A: 255}
	}
	h = math.Mod(h, 360) / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{R: conv(r), G: conv(g), B: conv(b), A: 255}
}

//palette returns the key-th of steps colors, spread over the hues
//while skipping the hard-to-see yellows.
func palette(key, steps int) color.RGBA {
	if steps < 1 {
		steps = 1
	}
	hp := float64(key)*260.0/float64(steps) + 20.0
	h := hp + 20
	if hp < 55 {
		h = hp - 20
	}
	return hsv(h, 1, 1)
}

//grey is used for whatever didn't make the cut.
var grey = hsv(0, 0.6, 0)
