package station

import (
	"fmt"
	"strings"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/DivinerX/fuelrouterx/pkg/geo"
	"github.com/dhconnelly/rtreego"
)

// DefaultPricePerGallon is used for trip cost estimates when the catalog
// carries no usable prices.
const DefaultPricePerGallon = 3.50

// pointExtent gives station points a tiny nonzero footprint, rtreego
// rejects zero-sized rectangles.
const pointExtent = 1e-9

// Record is one row of the station price feed before it enters the
// catalog. Latitude and longitude stay zero until geocoding fills them.
type Record struct {
	OpisID         int64
	Name           string
	Address        string
	City           string
	State          string
	RackID         int64
	PricePerGallon float64
	Lat            float64
	Lon            float64
}

// Normalize trims the text fields and validates what the planners depend
// on. Coordinates are only checked when set, rows awaiting geocoding pass
// through.
func (r *Record) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)

	if r.OpisID <= 0 {
		return fmt.Errorf("station %q: invalid opis id %d", r.Name, r.OpisID)
	}
	if r.PricePerGallon <= 0 {
		return fmt.Errorf("station %q: invalid price %.4f", r.Name, r.PricePerGallon)
	}
	if r.HasCoordinates() {
		if r.Lat < -90 || r.Lat > 90 || r.Lon < -180 || r.Lon > 180 {
			return fmt.Errorf("station %q: coordinates out of range (%.6f, %.6f)",
				r.Name, r.Lat, r.Lon)
		}
	}
	return nil
}

func (r *Record) HasCoordinates() bool {
	return r.Lat != 0 || r.Lon != 0
}

func (r *Record) ToFuelStation() datastructure.FuelStation {
	return datastructure.FuelStation{
		ID:             r.OpisID,
		Name:           r.Name,
		Address:        fmt.Sprintf("%s, %s, %s", r.Address, r.City, r.State),
		Lat:            r.Lat,
		Lon:            r.Lon,
		PricePerGallon: r.PricePerGallon,
	}
}

type catalogEntry struct {
	rect    rtreego.Rect
	station datastructure.FuelStation
}

func (e *catalogEntry) Bounds() rtreego.Rect { return e.rect }

// Catalog holds the geocoded station set behind an in-memory r-tree so
// route handlers can prefilter by bounding box before the per-segment
// corridor check runs. Read-only after construction, safe for concurrent
// use.
type Catalog struct {
	stations []datastructure.FuelStation
	tree     *rtreego.Rtree
	avgPrice float64
}

// NewCatalog indexes the stations that carry coordinates; rows without a
// geocode cannot be matched to a route and are dropped.
func NewCatalog(stations []datastructure.FuelStation) *Catalog {
	tree := rtreego.NewTree(2, 25, 50)
	kept := make([]datastructure.FuelStation, 0, len(stations))
	priceSum := 0.0
	for _, st := range stations {
		if st.Lat == 0 && st.Lon == 0 {
			continue
		}
		rect, err := rtreego.NewRect(
			rtreego.Point{st.Lon, st.Lat},
			[]float64{pointExtent, pointExtent},
		)
		if err != nil {
			continue
		}
		tree.Insert(&catalogEntry{rect: rect, station: st})
		kept = append(kept, st)
		priceSum += st.PricePerGallon
	}

	avg := 0.0
	if len(kept) > 0 {
		avg = priceSum / float64(len(kept))
	}
	return &Catalog{stations: kept, tree: tree, avgPrice: avg}
}

func (c *Catalog) Len() int {
	return len(c.stations)
}

func (c *Catalog) All() []datastructure.FuelStation {
	out := make([]datastructure.FuelStation, len(c.stations))
	copy(out, c.stations)
	return out
}

// AveragePriceGallon is the fleet average across the indexed stations,
// DefaultPricePerGallon when the catalog is empty.
func (c *Catalog) AveragePriceGallon() float64 {
	if len(c.stations) == 0 {
		return DefaultPricePerGallon
	}
	return c.avgPrice
}

// InBoundingBox returns the stations inside the box. Used as the coarse
// prefilter before the route corridor scan.
func (c *Catalog) InBoundingBox(b geo.BoundingBox) []datastructure.FuelStation {
	lenLon := b.MaxLon - b.MinLon
	lenLat := b.MaxLat - b.MinLat
	if lenLon < pointExtent {
		lenLon = pointExtent
	}
	if lenLat < pointExtent {
		lenLat = pointExtent
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{b.MinLon, b.MinLat},
		[]float64{lenLon, lenLat},
	)
	if err != nil {
		return nil
	}

	matches := c.tree.SearchIntersect(rect)
	out := make([]datastructure.FuelStation, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.(*catalogEntry).station)
	}
	return out
}

// Nearest returns up to k stations closest to the point.
func (c *Catalog) Nearest(lat, lon float64, k int) []datastructure.FuelStation {
	matches := c.tree.NearestNeighbors(k, rtreego.Point{lon, lat})
	out := make([]datastructure.FuelStation, 0, len(matches))
	for _, m := range matches {
		if m == nil {
			break
		}
		out = append(out, m.(*catalogEntry).station)
	}
	return out
}
