package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"sync"

	"github.com/google/uuid"
)

var (
	listen       = flag.String("listen", ":8080", "HTTP listen address")
	configFile   = flag.String("config", "", "Path to planner config JSON (optional)")
	simulate     = flag.Bool("simulate", false, "Run a local exploration simulation instead of the HTTP server")
	obstacleDir  = flag.String("obstacles", "", "Directory of GeoJSON obstacle files for the simulation world")
	cycles       = flag.Int("cycles", 600, "Maximum control cycles in simulation mode")
	debugLogging = flag.Bool("debug", false, "Enable diagnostic and trace planner logs")
)

// maxRequestInflationRadius bounds the per-request inflation radius, in cells.
const maxRequestInflationRadius = 1024

// PlanRequest asks for a single A* search. Grids are row-major; null marks an undefined cell.
// When Expanded is omitted it is computed from Raw with InflationRadius (or the configured radius).
type PlanRequest struct {
	Raw             [][]*float64 `json:"raw"`
	Expanded        [][]*float64 `json:"expanded,omitempty"`
	InflationRadius *int         `json:"inflationRadius,omitempty"`
	Start           Cell         `json:"start"`
	Goal            Cell         `json:"goal"`
	SimplifyEpsilon float64      `json:"simplifyEpsilon,omitempty"`
}

type PlanResponse struct {
	ID         string     `json:"id"`
	Success    bool       `json:"success"`
	Message    string     `json:"message,omitempty"`
	Path       Path       `json:"path,omitempty"` // goal first
	Waypoints  []Waypoint `json:"waypoints,omitempty"`
	Cost       float64    `json:"cost,omitempty"`
	Expansions int        `json:"expansions"`
}

// ValidateRequest asks whether a committed path (goal first) is still safe on the given map.
type ValidateRequest struct {
	Raw       [][]*float64 `json:"raw"`
	Expanded  [][]*float64 `json:"expanded,omitempty"`
	Path      Path         `json:"path"`
	Threshold *float64     `json:"threshold,omitempty"`
}

type ValidateResponse struct {
	ID        string  `json:"id"`
	Unsafe    bool    `json:"unsafe"`
	Reason    string  `json:"reason"`
	Cell      *Cell   `json:"cell,omitempty"`
	Risk      float64 `json:"risk,omitempty"`
	ResetCell *Cell   `json:"resetCell,omitempty"` // raw cell set to UnknownRisk
}

var (
	plannerConfig = EmptyPlannerConfig()
	configMutex   sync.RWMutex

	plansServed int
	statsMutex  sync.Mutex
)

func currentConfig() *PlannerConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return plannerConfig
}

func setPlannerConfig(cfg *PlannerConfig) {
	configMutex.Lock()
	plannerConfig = cfg
	configMutex.Unlock()
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode json response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// gridFromJSON builds an occupancy grid from wire layers. A missing expanded layer is
// inflated from raw with radius.
func gridFromJSON(raw, expanded [][]*float64, radius int) (*OccupancyGrid, error) {
	grid, err := NewOccupancyGridFromRows(decodeLayer(raw))
	if err != nil {
		return nil, err
	}
	if expanded == nil {
		grid.Inflate(radius)
		return grid, nil
	}

	rows, cols := grid.Dims()
	if len(expanded) != rows {
		return nil, fmt.Errorf("%w: expanded has %d rows, raw has %d", ErrNonRectangular, len(expanded), rows)
	}
	for r, row := range expanded {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: expanded row %d has %d cells, raw has %d", ErrNonRectangular, r, len(row), cols)
		}
		for c, v := range row {
			risk := math.NaN()
			if v != nil {
				risk = *v
			}
			grid.SetRisk(ExpandedGrid, Cell{Row: r, Col: c}, risk)
		}
	}
	return grid, nil
}

func decodeLayer(layer [][]*float64) [][]float64 {
	out := make([][]float64, len(layer))
	for r, row := range layer {
		out[r] = make([]float64, len(row))
		for c, v := range row {
			if v == nil {
				out[r][c] = math.NaN()
			} else {
				out[r][c] = *v
			}
		}
	}
	return out
}

// POST /plan - Run A* on the submitted grid
func planHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Plan request received")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg := currentConfig()
	radius := cfg.GetInflationRadiusCells()
	if req.InflationRadius != nil {
		radius = *req.InflationRadius
	}
	if radius < 0 || radius > maxRequestInflationRadius {
		log.Printf("❌ Inflation radius %d out of range\n", radius)
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("inflationRadius must be between 0 and %d", maxRequestInflationRadius))
		return
	}

	grid, err := gridFromJSON(req.Raw, req.Expanded, radius)
	if err != nil {
		log.Printf("❌ Invalid grid: %v\n", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, cols := grid.Dims()
	log.Printf("   Grid:  %dx%d\n", rows, cols)
	log.Printf("   Start: %v\n", req.Start)
	log.Printf("   Goal:  %v\n", req.Goal)

	resp := PlanResponse{ID: uuid.NewString()}

	log.Println("🔍 Running A* on occupancy grid...")
	opts := cfg.SearchOptions()
	result, err := Search(grid, req.Start, req.Goal, opts)
	if errors.Is(err, ErrInvalidStartOrGoal) {
		log.Printf("❌ %v\n", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		log.Println("========================================")
		return
	}
	if result != nil {
		resp.Expansions = result.Expansions
	}

	var path Path
	if err == nil {
		path, err = result.Path()
	}
	if err != nil {
		log.Printf("❌ No path: %v\n", err)
		resp.Message = err.Error()
	} else {
		resp.Success = true
		resp.Path = path
		resp.Cost, _ = result.Cost()
		resp.Waypoints = SimplifyPath(path, req.SimplifyEpsilon)
		log.Printf("✅ Path found with %d cells (%d waypoints)\n", len(path), len(resp.Waypoints))
		log.Printf("   Cost: %.2f after %d expansions\n", resp.Cost, resp.Expansions)
	}

	statsMutex.Lock()
	plansServed++
	statsMutex.Unlock()

	writeJSON(w, http.StatusOK, resp)
	log.Println("========================================")
}

// POST /validate - Check a committed path against the submitted grid
func validateHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🛡️  Validate request received")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg := currentConfig()
	grid, err := gridFromJSON(req.Raw, req.Expanded, cfg.GetInflationRadiusCells())
	if err != nil {
		log.Printf("❌ Invalid grid: %v\n", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	validator := cfg.Validator()
	if req.Threshold != nil {
		validator.Threshold = *req.Threshold
	}

	verdict := validator.Check(grid, req.Path)
	resp := ValidateResponse{
		ID:     uuid.NewString(),
		Unsafe: verdict.Unsafe,
		Reason: verdict.Reason.String(),
		Risk:   verdict.Risk,
	}
	if verdict.Unsafe {
		cell := verdict.Cell
		resp.Cell = &cell
		log.Printf("⚠️  Path unsafe: %v\n", verdict.Err())
	} else {
		log.Printf("✅ Path of %d cells is safe\n", len(req.Path))
	}
	if verdict.Reason == ReasonUndefined {
		cell := verdict.Cell
		resp.ResetCell = &cell
	}

	writeJSON(w, http.StatusOK, resp)
	log.Println("========================================")
}

// GET /health - Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	statsMutex.Lock()
	served := plansServed
	statsMutex.Unlock()

	cfg := currentConfig()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":                  "ready",
		"plansServed":             served,
		"traversabilityThreshold": cfg.GetTraversabilityThreshold(),
		"replanRiskThreshold":     cfg.GetReplanRiskThreshold(),
	})
}

func main() {
	flag.Parse()

	log.Println("========================================")
	log.Println("🚀 Frontier Navigator (grid A* planner)")
	log.Println("========================================")

	if *debugLogging {
		SetLogWriters(os.Stderr, os.Stderr, os.Stderr)
	} else {
		SetLogWriters(os.Stderr, nil, nil)
	}

	if *configFile != "" {
		cfg, err := LoadPlannerConfig(*configFile)
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v", err)
		}
		setPlannerConfig(cfg)
		log.Printf("✅ Loaded planner config from %s\n", *configFile)
	} else {
		log.Println("ℹ️  No config file given, using defaults")
	}

	if *simulate {
		summary, err := runSimulation(currentConfig(), *obstacleDir, *cycles)
		if err != nil {
			log.Fatalf("❌ Simulation failed: %v", err)
		}
		log.Printf("🏁 Simulation %s finished: %s after %d cycles (%d replans, %.0f%% of map known)\n",
			summary.RunID, summary.State, summary.Cycles, summary.Replans, summary.KnownFraction*100)
		return
	}

	http.HandleFunc("/plan", corsMiddleware(planHandler))
	http.HandleFunc("/validate", corsMiddleware(validateHandler))
	http.HandleFunc("/health", corsMiddleware(healthHandler))

	log.Printf("Server starting on %s\n", *listen)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /plan       - Compute a path on an occupancy grid")
	log.Println("  POST /validate   - Check a committed path against a grid")
	log.Println("  GET  /health     - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	if err := http.ListenAndServe(*listen, nil); err != nil {
		log.Fatal(err)
	}
}
