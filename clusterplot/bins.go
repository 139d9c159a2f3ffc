/*
 * bins.go, part of gorif.
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
	"sort"
	"strconv"

	"github.com/rmera/gorif/histo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//max number of bars that get their own tick label
const maxLabels = 30

//BinSizes plots the given bin sizes as bars, largest first. The first cut bars
//(the bins that are kept) are colored, the rest are grey. cut<=0 colors everything.
func BinSizes(sizes []int, cut int, title string) (*plot.Plot, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("clusterplot: BinSizes: no bins to plot")
	}
	s := make([]int, len(sizes))
	copy(s, sizes)
	sort.Sort(sort.Reverse(sort.IntSlice(s)))
	if cut <= 0 || cut > len(s) {
		cut = len(s)
	}
	p := basicPlot(title, "Bin", "Poses")
	w := barWidth(len(s))
	kept, err := plotter.NewBarChart(intValues(s[:cut]), w)
	if err != nil {
		return nil, fmt.Errorf("clusterplot: BinSizes: %w", err)
	}
	kept.Color = palette(0, 1)
	kept.LineStyle.Width = 0
	p.Add(kept)
	p.Legend.Add(fmt.Sprintf("kept (%d)", cut), kept)
	if cut < len(s) {
		rest, err := plotter.NewBarChart(intValues(s[cut:]), w)
		if err != nil {
			return nil, fmt.Errorf("clusterplot: BinSizes: %w", err)
		}
		rest.XMin = float64(cut)
		rest.Color = grey
		rest.LineStyle.Width = 0
		p.Add(rest)
		p.Legend.Add(fmt.Sprintf("rest (%d)", len(s)-cut), rest)
	}
	p.Legend.Top = true
	if len(s) <= maxLabels {
		names := make([]string, len(s))
		for i := range names {
			names[i] = strconv.Itoa(i + 1)
		}
		p.NominalX(names...)
	}
	return p, nil
}

//SizeHistogram plots a histogram of bin sizes, such as the one from histo.FromSizes,
//with one bar per divider interval.
func SizeHistogram(h *histo.Data, title string) (*plot.Plot, error) {
	if h == nil {
		return nil, fmt.Errorf("clusterplot: SizeHistogram: nil histogram")
	}
	counts := h.View()
	div := h.Dividers()
	ylabel := "Bins"
	if h.Normalized() {
		ylabel = "Fraction of bins"
	}
	p := basicPlot(title, "Bin size", ylabel)
	bars, err := plotter.NewBarChart(plotter.Values(counts), barWidth(len(counts)))
	if err != nil {
		return nil, fmt.Errorf("clusterplot: SizeHistogram: %w", err)
	}
	bars.LineStyle.Width = 0
	bars.Color = palette(2, 4)
	p.Add(bars)
	names := make([]string, len(counts))
	for i := range names {
		names[i] = fmt.Sprintf("%g-%g", div[i], div[i+1]-1)
		if div[i+1]-1 <= div[i] {
			names[i] = fmt.Sprintf("%g", div[i])
		}
	}
	p.NominalX(names...)
	return p, nil
}

func barWidth(n int) vg.Length {
	w := (Side - vg.Inch) / vg.Length(2*n)
	if w < 1 {
		w = 1
	}
	return w
}

func intValues(s []int) plotter.Values {
	v := make(plotter.Values, len(s))
	for i, j := range s {
		v[i] = float64(j)
	}
	return v
}
