package histo

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

//CutLine separates the bins that are kept from the rest in StarBars.
const CutLine = "============================ cut ========================="

//SizeDividers returns power-of-two dividers 1, 2, 4... enough to hold a bin of maxSize elements.
func SizeDividers(maxSize int) []float64 {
	d := []float64{1, 2}
	for d[len(d)-1] <= float64(maxSize) {
		d = append(d, 2*d[len(d)-1])
	}
	return d
}

//FromSizes returns the histogram of the given cluster sizes, with power-of-two dividers.
func FromSizes(sizes []int, ID ...int) *Data {
	max := 1
	raw := make([]float64, len(sizes))
	for i, v := range sizes {
		raw[i] = float64(v)
		if v > max {
			max = v
		}
	}
	return NewData(SizeDividers(max), raw, ID...)
}

//StarBars renders the given bin sizes, largest first, one line per bin: the size followed
//by a bar of stars with at most ~50 stars for the largest bin. A CutLine is printed
//before the bin with rank cut, if 0 < cut < len(sizes).
func StarBars(sizes []int, cut int) string {
	if len(sizes) == 0 {
		return ""
	}
	s := append([]int(nil), sizes...)
	sort.Sort(sort.Reverse(sort.IntSlice(s)))
	biggest := s[0]
	digits := 0
	for t := biggest; t != 0; t /= 10 {
		digits++
	}
	starEvery := biggest / 50
	if starEvery < 1 {
		starEvery = 1
	}
	var b strings.Builder
	for i, v := range s {
		if i == cut {
			b.WriteString(CutLine + "\n")
		}
		fmt.Fprintf(&b, "%*d ", digits+1, v)
		for t := v - starEvery; t > 0; t -= starEvery {
			b.WriteByte('*')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var kmgtSuffixes = []string{" ", "K", "M", "G", "T", "P", "E", "Z"}

//KMGT formats x in a w-wide field with d decimals, scaled down by powers
//of 1000 and followed by the matching suffix (K, M, G...).
func KMGT(x float64, w, d int) string {
	scale := 1.0
	for _, suf := range kmgtSuffixes {
		if math.Abs(x) < scale*1e3 {
			return fmt.Sprintf("%*.*f%s", w, d, x/scale, suf)
		}
		scale *= 1e3
	}
	return fmt.Sprintf("%*.*f%s", w, d, x/scale, "Y")
}
