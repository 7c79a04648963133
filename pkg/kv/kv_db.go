package kv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/dgraph-io/badger/v4"
	"github.com/uber/h3-go/v4"
)

var (
	ErrStationsNotFound = errors.New("stations not found")
)

// stations are bucketed per h3 cell. Resolution 5 cells are roughly
// 250 km2, a good match for highway corridor lookups.
const (
	stationKeyPrefix  = "stations/"
	stationResolution = 5
)

type StationDB struct {
	db *badger.DB
}

func NewStationDB(db *badger.DB) *StationDB {
	return &StationDB{db}
}

// BuildH3IndexedStations buckets the stations by h3 cell and persists each
// bucket as one compressed value.
func (k *StationDB) BuildH3IndexedStations(ctx context.Context, stations []datastructure.FuelStation) error {
	log.Printf("creating & saving h3 indexed stations to key-value db...")

	kvBuckets := make(map[string][]datastructure.FuelStation)
	for i := range stations {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		st := stations[i]
		h3LatLon := h3.NewLatLng(st.Lat, st.Lon)
		cell := h3.LatLngToCell(h3LatLon, stationResolution)
		key := stationKeyPrefix + cell.String()
		kvBuckets[key] = append(kvBuckets[key], st)
	}

	batchSize := 1000
	batches := make([]batchData, 0, batchSize)
	for key, value := range kvBuckets {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		batches = append(batches, batchData{
			key:   key,
			value: value,
		})
		if len(batches) == batchSize {
			if err := k.saveBatchStations(ctx, batches); err != nil {
				return err
			}
			batches = make([]batchData, 0, batchSize)
		}
	}

	if len(batches) > 0 {
		if err := k.saveBatchStations(ctx, batches); err != nil {
			return err
		}
	}

	log.Printf("creating & saving h3 indexed stations to key-value db done...")
	return nil
}

type batchData struct {
	key   string
	value []datastructure.FuelStation
}

func (k *StationDB) saveBatchStations(ctx context.Context, batchData []batchData) error {
	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	for _, data := range batchData {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		val, err := encodeStations(data.value)
		if err != nil {
			return err
		}

		if err := batch.Set([]byte(data.key), val); err != nil {
			return err
		}
	}

	if err := batch.Flush(); err != nil {
		log.Printf("error saving stations: %v", err)
		return err
	}
	return nil
}

func (k *StationDB) get(val, key []byte) ([]byte, error) {
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		return nil
	})
	return val, err
}

// GetNearestStationsFromPointCoord returns the stations bucketed around a
// point, widening the h3 grid disk until something is found.
func (k *StationDB) GetNearestStationsFromPointCoord(lat, lon float64) ([]datastructure.FuelStation, error) {
	stations := []datastructure.FuelStation{}

	home := h3.NewLatLng(lat, lon)
	cell := h3.LatLngToCell(home, stationResolution)

	var val []byte
	val, err := k.get(val, []byte(stationKeyPrefix+cell.String()))
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return []datastructure.FuelStation{}, err
	}
	if err == nil {
		bucket, err := loadStations(val)
		if err != nil {
			return []datastructure.FuelStation{}, err
		}
		stations = append(stations, bucket...)
	}

	for lev := 1; lev <= 10; lev++ {
		if len(stations) != 0 {
			break
		}
		cells := h3.GridDisk(cell, lev)
		for _, currCell := range cells {
			if currCell == cell {
				continue
			}
			var val []byte
			val, err = k.get(val, []byte(stationKeyPrefix+currCell.String()))
			if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return []datastructure.FuelStation{}, err
			}
			if err != nil {
				continue
			}
			bucket, err := loadStations(val)
			if err != nil {
				return []datastructure.FuelStation{}, err
			}
			stations = append(stations, bucket...)
		}
	}

	if len(stations) == 0 {
		return []datastructure.FuelStation{}, ErrStationsNotFound
	}

	return stations, nil
}

// AllStations streams every bucket back out, used to warm the in-memory
// catalog at startup.
func (k *StationDB) AllStations() ([]datastructure.FuelStation, error) {
	stations := []datastructure.FuelStation{}

	err := k.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(stationKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				bucket, err := loadStations(val)
				if err != nil {
					return err
				}
				stations = append(stations, bucket...)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stations, nil
}

func kRingIndexesArea(lat, lon, searchRadiusKm float64) []h3.Cell {
	home := h3.NewLatLng(lat, lon)
	origin := h3.LatLngToCell(home, stationResolution)
	originArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * searchRadiusKm * searchRadiusKm

	radius := 0
	diskArea := originArea

	for diskArea < searchArea {
		radius++
		cellCount := float64(3*radius*(radius+1) + 1)
		diskArea = cellCount * originArea
	}

	return h3.GridDisk(origin, radius)
}

// StationsWithinRadius returns the stations bucketed within roughly
// searchRadiusKm of the point.
func (k *StationDB) StationsWithinRadius(lat, lon, searchRadiusKm float64) ([]datastructure.FuelStation, error) {
	stations := []datastructure.FuelStation{}

	for _, cell := range kRingIndexesArea(lat, lon, searchRadiusKm) {
		var val []byte
		val, err := k.get(val, []byte(stationKeyPrefix+cell.String()))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return []datastructure.FuelStation{}, err
		}
		if err != nil {
			continue
		}
		bucket, err := loadStations(val)
		if err != nil {
			return []datastructure.FuelStation{}, err
		}
		stations = append(stations, bucket...)
	}

	return stations, nil
}

func (k *StationDB) Close() {
	k.db.Close()
}
