package kv

import (
	"github.com/DivinerX/fuelrouterx/pkg/datastructure"
	"github.com/kelindar/binary"
)

func encodeStations(sw []datastructure.FuelStation) ([]byte, error) {
	bb, err := binary.Marshal(sw)
	if err != nil {
		return nil, err
	}

	bbCompressed, err := compress(bb)
	if err != nil {
		return nil, err
	}

	return bbCompressed, nil
}

func loadStations(bbCompressed []byte) ([]datastructure.FuelStation, error) {
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}

	var sw []datastructure.FuelStation
	err = binary.Unmarshal(bb, &sw)
	return sw, err
}
