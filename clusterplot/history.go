/*
 * history.go, part of gorif.
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

package clusterplot

import (
	"fmt"

	"github.com/rmera/gorif/cluster"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//SearchHistory plots the error of each trial of an adaptive clustering run
//against the number of bins tried. Points are joined in the order they were
//tried, and the last trial is marked with a larger ring. The band of width
//2*tol around zero is drawn if tol>0.
func SearchHistory(res *cluster.Result, tol float64, title string) (*plot.Plot, error) {
	if res == nil || len(res.Trials) == 0 {
		return nil, fmt.Errorf("clusterplot: SearchHistory: no trials to plot")
	}
	if len(res.Trials) != len(res.Errors) {
		return nil, fmt.Errorf("clusterplot: SearchHistory: %d trials but %d errors", len(res.Trials), len(res.Errors))
	}
	p := basicPlot(title, "Bins", "Captured fraction - target")
	pts := make(plotter.XYs, len(res.Trials))
	for i, t := range res.Trials {
		pts[i].X = float64(t)
		pts[i].Y = res.Errors[i]
	}
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("clusterplot: SearchHistory: %w", err)
	}
	l.Color = palette(0, 1)
	s.GlyphStyle.Color = palette(0, 1)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(l, s)
	p.Legend.Add("trials", l, s)

	last, err := plotter.NewScatter(pts[len(pts)-1:])
	if err != nil {
		return nil, fmt.Errorf("clusterplot: SearchHistory: %w", err)
	}
	last.GlyphStyle.Shape = draw.RingGlyph{}
	last.GlyphStyle.Radius = 2 * s.GlyphStyle.Radius
	last.GlyphStyle.Color = palette(3, 4)
	p.Add(last)
	name := "last (not converged)"
	if res.Converged {
		name = "last (converged)"
	}
	p.Legend.Add(name, last)

	if tol > 0 {
		xmin, xmax := pts[0].X, pts[0].X
		for _, v := range pts {
			xmin = min(xmin, v.X)
			xmax = max(xmax, v.X)
		}
		if xmax == xmin {
			xmin--
			xmax++
		}
		for _, y := range []float64{-tol, tol} {
			b, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: y}, {X: xmax, Y: y}})
			if err != nil {
				return nil, fmt.Errorf("clusterplot: SearchHistory: %w", err)
			}
			b.Color = grey
			b.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(b)
		}
	}
	return p, nil
}
