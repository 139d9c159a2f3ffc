package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Data counts values between consecutive dividers: bin i holds the values v with
//dividers[i] <= v < dividers[i+1]. Values outside every bin still count in Total.
//Once normalized, the bins hold fractions of Total instead of counts.
type Data struct {
	id       int
	norm     bool
	total    int
	dividers []float64
	counts   []float64
}

type dataJSON struct {
	ID         int       `json:"id"`
	Normalized bool      `json:"normalized"`
	Total      int       `json:"total"`
	Dividers   []float64 `json:"dividers"`
	Counts     []float64 `json:"counts"`
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(dataJSON{D.id, D.norm, D.total, D.dividers, D.counts})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var w dataJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if len(w.Dividers) < 2 || len(w.Counts) != len(w.Dividers)-1 {
		return fmt.Errorf("histo: %d counts for %d dividers", len(w.Counts), len(w.Dividers))
	}
	*D = Data{id: w.ID, norm: w.Normalized, total: w.Total, dividers: w.Dividers, counts: w.Counts}
	return nil
}

//NewData returns a histogram over the given dividers (at least 2, sorted) holding
//rawdata, which can be nil. The ID is -1 unless one is given.
func NewData(dividers []float64, rawdata []float64, ID ...int) *Data {
	if len(dividers) < 2 {
		panic("histo: NewData needs at least 2 dividers")
	}
	d := &Data{id: -1, dividers: append([]float64(nil), dividers...)}
	if len(ID) > 0 {
		d.id = ID[0]
	}
	d.ReHisto(d.dividers, rawdata)
	return d
}

func (D *Data) ID() int { return D.id }

//Total is the number of values given to the histogram, binned or not.
func (D *Data) Total() int { return D.total }

func (D *Data) Normalized() bool { return D.norm }

//View returns the bins themselves, not a copy.
func (D *Data) View() []float64 { return D.counts }

//Counts returns a copy of the bins.
func (D *Data) Counts() []float64 { return append([]float64(nil), D.counts...) }

//Dividers returns a copy of the dividers.
func (D *Data) Dividers() []float64 { return append([]float64(nil), D.dividers...) }

//Sum adds up the bins. It equals Total (or 1, normalized) only if no value fell outside.
func (D *Data) Sum() float64 { return floats.Sum(D.counts) }

func (D *Data) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "histogram %d: %d values", D.id, D.total)
	if D.norm {
		b.WriteString(", normalized")
	}
	for i, c := range D.counts {
		fmt.Fprintf(&b, "\n[%g, %g) %.3f", D.dividers[i], D.dividers[i+1], c)
	}
	return b.String()
}

//AddData puts more values in the histogram, keeping it normalized if it was.
func (D *Data) AddData(point ...float64) {
	wasNorm := D.norm
	D.UnNormalize()
	for _, v := range point {
		//index of the first divider above v
		j := sort.SearchFloat64s(D.dividers, math.Nextafter(v, math.Inf(1)))
		if j > 0 && j < len(D.dividers) {
			D.counts[j-1]++
		}
	}
	D.total += len(point)
	if wasNorm {
		D.Normalize()
	}
}

//Normalize turns the counts into fractions of Total. It does nothing on an
//empty or already normalized histogram.
func (D *Data) Normalize() {
	if D.norm || D.total == 0 {
		return
	}
	floats.Scale(1/float64(D.total), D.counts)
	D.norm = true
}

//UnNormalize turns fractions back into counts.
func (D *Data) UnNormalize() {
	if !D.norm {
		return
	}
	floats.Scale(float64(D.total), D.counts)
	D.norm = false
}

//ReHisto replaces the contents of the histogram with rawdata binned over dividers.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	data := append([]float64(nil), rawdata...)
	sort.Float64s(data)
	//stat.Histogram panics on values outside the dividers.
	lo := sort.SearchFloat64s(data, dividers[0])
	hi := sort.SearchFloat64s(data, dividers[len(dividers)-1])
	D.dividers = append(D.dividers[:0], dividers...)
	D.counts = stat.Histogram(nil, D.dividers, data[lo:hi], nil)
	D.total = len(rawdata)
	D.norm = false
}
