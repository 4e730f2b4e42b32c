package server

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
	"github.com/mitchellh/mapstructure"
)

// stringToIntHookFunc lets clients send numeric fields as strings.
func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Int {
			return data, nil
		}
		s := data.(string)
		if s == "" {
			return 0, nil
		}
		return strconv.Atoi(s)
	}
}

// stringToRefHookFunc accepts targets in their "card:7" / "player:bob" form.
func stringToRefHookFunc() mapstructure.DecodeHookFunc {
	refType := reflect.TypeOf(targeting.Ref{})
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != refType {
			return data, nil
		}
		return targeting.ParseRef(data.(string))
	}
}

// decodeMove converts a loosely typed payload into a Move.
func decodeMove(raw map[string]any) (game.Move, error) {
	var m game.Move
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToRefHookFunc(),
			stringToIntHookFunc(),
		),
		ErrorUnused: true,
		Result:      &m,
	})
	if err != nil {
		return game.Move{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return game.Move{}, fmt.Errorf("decode move: %w", err)
	}
	if m.MoveType == "" {
		return game.Move{}, fmt.Errorf("decode move: move_type is required")
	}
	return m, nil
}
