// Package sceneio decodes the wire representation of a scene into
// pkg/scene types, and encodes computed results back into the response
// envelope. It never touches HTTP directly: Decode accepts an io.Reader and
// Encode writes to an io.Writer, so both are unit-testable without a
// server running.
package sceneio

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/thermalsim/viewfactor/pkg/core"
	"github.com/thermalsim/viewfactor/pkg/scene"
)

// ParseError wraps a decode or validation failure so the HTTP layer can
// distinguish "bad input" (400) from any future internal error class (500)
// without string-matching the message.
type ParseError struct {
	err error
}

func (e *ParseError) Error() string { return e.err.Error() }
func (e *ParseError) Unwrap() error { return e.err }

func newParseError(format string, args ...interface{}) *ParseError {
	return &ParseError{err: fmt.Errorf(format, args...)}
}

var validate = validator.New()

// point3 is the wire representation of a Vec3: [x, y, z].
type point3 = [3]float64

type wirePoint struct {
	Origin point3 `json:"origin"`
	Normal point3 `json:"normal"`
}

type wirePlane struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Points []wirePoint `json:"points" validate:"required"`
}

// Polygon carries no length validation: a polygon with fewer than 3
// vertices is not a parse error, it is silently skipped at trace time.
type wireEmitterObject struct {
	Polygon     []point3 `json:"polygon"`
	Temperature float64  `json:"temperature"`
}

// wireRequest mirrors the JSON object accepted by /calculate. Polygons is
// decoded in two passes (see decodePolygons) because it accepts either the
// {polygon, temperature} object form or the legacy bare-polygon array form.
type wireRequest struct {
	ReceiverPlanes map[string]wirePlane `json:"receiver_planes" validate:"required,min=1"`
	Polygons       json.RawMessage      `json:"polygons"`
	InertPolygons  [][]point3           `json:"inert_polygons"`
	NumRays        *int                 `json:"num_rays"`
	Seed           *uint64              `json:"seed"`
}

// Decode parses r into a scene.Scene. Any structural or validation failure
// is returned as a *ParseError.
func Decode(r io.Reader) (*scene.Scene, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, newParseError("reading request body: %w", err)
	}

	var wire wireRequest
	if err := sonic.Unmarshal(body, &wire); err != nil {
		return nil, newParseError("decoding request body: %w", err)
	}

	if err := validate.Struct(&wire); err != nil {
		return nil, newParseError("validating request body: %w", err)
	}

	// wire.Polygons stays nil only when the key itself is absent from the
	// body; "polygons": [] decodes to a non-nil empty message and is fine
	// (the original implementation distinguishes "missing" from "empty"
	// the same way: a present-but-empty list is not an error).
	if wire.Polygons == nil {
		return nil, newParseError("missing required field: polygons")
	}

	emitters, err := decodePolygons(wire.Polygons)
	if err != nil {
		return nil, newParseError("decoding polygons: %w", err)
	}

	occluders := make([]scene.Occluder, len(wire.InertPolygons))
	for i, poly := range wire.InertPolygons {
		occluders[i] = scene.Occluder{Polygon: toPolygon(poly)}
	}

	planes := make([]scene.ReceiverPlane, 0, len(wire.ReceiverPlanes))
	for name, p := range wire.ReceiverPlanes {
		points := make([]scene.ReceiverPoint, len(p.Points))
		for i, wp := range p.Points {
			points[i] = scene.ReceiverPoint{
				Origin: toVec3(wp.Origin),
				Normal: toVec3(wp.Normal),
			}
		}
		planes = append(planes, scene.ReceiverPlane{
			Name:   name,
			Width:  p.Width,
			Height: p.Height,
			Points: points,
		})
	}

	// receiver_planes decodes from a map, whose iteration order Go
	// randomizes per run; sort by name so the decoded scene (and, in turn,
	// the driver's output) is deterministic, matching the original
	// implementation's sorted-map iteration (see DESIGN.md, Open Question 1).
	sort.Slice(planes, func(i, j int) bool { return planes[i].Name < planes[j].Name })

	numRays := scene.DefaultNumRays
	if wire.NumRays != nil {
		numRays = *wire.NumRays
		if numRays < 0 {
			numRays = 0
		}
	}

	return &scene.Scene{
		Emitters:  emitters,
		Occluders: occluders,
		Planes:    planes,
		NumRays:   numRays,
		Seed:      wire.Seed,
	}, nil
}

// decodePolygons accepts either the object form
// [{"polygon": [...], "temperature": n}, ...] or the legacy bare form
// [[...], [...]] (temperature defaults to 0 for the legacy form).
func decodePolygons(raw json.RawMessage) ([]scene.Emitter, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var objects []wireEmitterObject
	if err := sonic.Unmarshal(raw, &objects); err == nil {
		emitters := make([]scene.Emitter, len(objects))
		for i, o := range objects {
			emitters[i] = scene.Emitter{Polygon: toPolygon(o.Polygon), Temperature: o.Temperature}
		}
		return emitters, nil
	}

	var legacy [][]point3
	if err := sonic.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("polygons must be an array of {polygon, temperature} objects or bare polygon arrays: %w", err)
	}
	emitters := make([]scene.Emitter, len(legacy))
	for i, poly := range legacy {
		emitters[i] = scene.Emitter{Polygon: toPolygon(poly), Temperature: 0}
	}
	return emitters, nil
}

func toVec3(p point3) core.Vec3 {
	return core.NewVec3(p[0], p[1], p[2])
}

func toPolygon(points []point3) scene.Polygon {
	poly := make(scene.Polygon, len(points))
	for i, p := range points {
		poly[i] = toVec3(p)
	}
	return poly
}

// wirePlaneResult and wireResponse mirror the success response envelope.
type wirePlaneResult struct {
	Name   string    `json:"name"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"values"`
}

type wireResponse struct {
	Success bool              `json:"success"`
	Planes  []wirePlaneResult `json:"planes"`
}

// Encode writes the success response envelope for results to w.
func Encode(w io.Writer, results []scene.PlaneResult) error {
	resp := wireResponse{Success: true, Planes: make([]wirePlaneResult, len(results))}
	for i, r := range results {
		resp.Planes[i] = wirePlaneResult{Name: r.Name, Width: r.Width, Height: r.Height, Values: r.Temperature}
	}

	body, err := sonic.Marshal(&resp)
	if err != nil {
		return fmt.Errorf("encoding response body: %w", err)
	}
	_, err = w.Write(body)
	return err
}
