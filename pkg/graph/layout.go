// Package graph builds a directed graph of wiki-link edges with
// gonum.org/v1/gonum/graph/simple — the same graph type the teacher's
// analysis package wraps for dependency graphs — and lays it out with
// a force-directed simulation tuned for circular terminal display.
package graph

import (
	"math"

	"github.com/mattn/go-runewidth"
	"gonum.org/v1/gonum/graph/simple"
)

// Node is one note positioned on the canvas.
type Node struct {
	Title string
	X, Y  float64
	VX, VY float64
	HomeX, HomeY float64
}

// Edge is a directed wiki-link reference between two node indices. A
// pair of notes linking each other collapses into one edge with
// Bidirectional set rather than two opposing edges.
type Edge struct {
	From, To      int
	Bidirectional bool
}

// Builder accumulates nodes and edges into a gonum DirectedGraph before
// layout, deduplicating edges the way the teacher's Analyzer does
// before running its graph algorithms.
type Builder struct {
	titles   []string
	index    map[string]int64
	g        *simple.DirectedGraph
	edgeIdx  map[[2]int64]int
	edgeList []Edge
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{
		index:   map[string]int64{},
		g:       simple.NewDirectedGraph(),
		edgeIdx: map[[2]int64]int{},
	}
}

// AddNode registers title (a note name) and returns its stable index,
// reusing the existing index if title was already added.
func (b *Builder) AddNode(title string) int64 {
	return b.AddNodeKeyed(title, title)
}

// AddNodeKeyed registers a node under a unique key with a separate
// display title, for callers whose display titles may collide (two
// notes named "Ideas" in different folders stay distinct nodes when
// keyed by wiki path).
func (b *Builder) AddNodeKeyed(key, title string) int64 {
	if id, ok := b.index[key]; ok {
		return id
	}
	id := int64(len(b.titles))
	b.titles = append(b.titles, title)
	b.index[key] = id
	b.g.AddNode(simple.Node(id))
	return id
}

// AddEdge links from->to by node key, deduplicating repeated links (a note
// linking to the same target twice produces one graph edge). Adding the
// reverse of an existing edge marks that edge bidirectional instead of
// creating a second one.
func (b *Builder) AddEdge(from, to string) {
	fromID := b.AddNode(from)
	toID := b.AddNode(to)
	if fromID == toID {
		return
	}
	key := [2]int64{fromID, toID}
	if _, ok := b.edgeIdx[key]; ok {
		return
	}
	if rev, ok := b.edgeIdx[[2]int64{toID, fromID}]; ok {
		b.edgeList[rev].Bidirectional = true
		return
	}
	b.edgeIdx[key] = len(b.edgeList)
	b.edgeList = append(b.edgeList, Edge{From: int(fromID), To: int(toID)})
	b.g.SetEdge(b.g.NewEdge(simple.Node(fromID), simple.Node(toID)))
}

// Nodes returns the node titles in stable insertion order.
func (b *Builder) Nodes() []string {
	out := make([]string, len(b.titles))
	copy(out, b.titles)
	return out
}

// Edges returns the deduplicated edge list in insertion order, so the
// same link set always feeds the force accumulation in the same order
// and the layout stays deterministic.
func (b *Builder) Edges() []Edge {
	out := make([]Edge, len(b.edgeList))
	copy(out, b.edgeList)
	return out
}

// lcg is the same linear-congruential generator the original layout
// used for deterministic, seed-reproducible jitter.
type lcg struct{ state uint32 }

func newLCG(seed uint32) *lcg {
	if seed < 1 {
		seed = 1
	}
	return &lcg{state: seed}
}

func (r *lcg) next() float64 {
	r.state = r.state*1103515245 + 12345
	return float64((r.state>>16)&0x7fff) / 32767.0
}

func (r *lcg) nextRange(min, max float64) float64 {
	return min + r.next()*(max-min)
}

// Options parameterizes the layout's terminal-aspect-ratio correction
// and simulation length, both empirical in the original and called out
// there as values a portable implementation should expose rather than
// bake in.
type Options struct {
	// AspectRatio corrects for a terminal cell being roughly twice as
	// tall as it is wide, so the circular layout reads as round rather
	// than vertically squashed.
	AspectRatio float64
	// Iterations is the number of simulation steps the cooling schedule
	// runs over.
	Iterations int
}

// DefaultOptions matches the original's empirical constants.
func DefaultOptions() Options {
	return Options{AspectRatio: 2.2, Iterations: 200}
}

// Layout runs a force-directed simulation with DefaultOptions.
func Layout(titles []string, edges []Edge) []Node {
	return LayoutWithOptions(titles, edges, DefaultOptions())
}

// LayoutWithOptions runs a force-directed simulation over nodes/edges
// and returns their final (x, y, homeX, homeY) positions, matching the
// original's Obsidian-style circular spread: golden-angle spiral seed,
// Coulomb repulsion, spring attraction, central gravity, a radial
// "stay circular" force, and a cooling temperature schedule.
func LayoutWithOptions(titles []string, edges []Edge, opts Options) []Node {
	n := len(titles)
	nodes := make([]Node, n)
	for i, t := range titles {
		nodes[i].Title = t
	}
	if n == 0 {
		return nodes
	}
	if n == 1 {
		nodes[0].X, nodes[0].Y = 50, 25
		nodes[0].HomeX, nodes[0].HomeY = 50, 25
		return nodes
	}

	aspectRatio := opts.AspectRatio
	if aspectRatio <= 0 {
		aspectRatio = DefaultOptions().AspectRatio
	}

	textWidths := make([]float64, n)
	var totalWidth float64
	for i, t := range titles {
		textWidths[i] = float64(runewidth.StringWidth(t))
		totalWidth += textWidths[i]
	}
	avgTextWidth := totalWidth / float64(n)

	textFactor := 1.0 + math.Min(avgTextWidth/12.0, 2.0)
	baseRadius := math.Sqrt(float64(n)) * 45.0 * textFactor

	const centerX, centerY = 60.0, 30.0

	rng := newLCG(uint32(n)*31337 ^ 12345)

	goldenAngle := math.Pi * (3.0 - math.Sqrt(5.0))
	for i := range nodes {
		angle := float64(i) * goldenAngle
		r := baseRadius * math.Sqrt(float64(i+1)/float64(n))

		rJitter := rng.nextRange(0.8, 1.2)
		angleJitter := rng.nextRange(-0.2, 0.2)

		finalR := r * rJitter
		finalAngle := angle + angleJitter

		nodes[i].X = centerX + finalR*math.Cos(finalAngle)*aspectRatio
		nodes[i].Y = centerY + finalR*math.Sin(finalAngle)
	}

	initialRadii := make([]float64, n)
	for i, node := range nodes {
		dx := (node.X - centerX) / aspectRatio
		dy := node.Y - centerY
		initialRadii[i] = math.Sqrt(dx*dx + dy*dy)
	}

	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultOptions().Iterations
	}
	const initialTemperature = 12.0

	textScale := 1.0 + math.Min(avgTextWidth/12.0, 2.0)

	repulsionStrength := 2000.0 * textScale
	const attractionStrength = 0.008
	const gravityStrength = 0.015
	const radialStrength = 0.01

	idealEdgeLength := 60.0 + avgTextWidth*0.6
	baseMinDistance := 50.0 + avgTextWidth*0.5

	for iter := 0; iter < iterations; iter++ {
		temperature := initialTemperature * (1.0 - float64(iter)/float64(iterations))
		damping := 0.85 + 0.1*(float64(iter)/float64(iterations))

		for i := range nodes {
			nodes[i].VX = 0
			nodes[i].VY = 0
		}

		var cx, cy float64
		for _, node := range nodes {
			cx += node.X
			cy += node.Y
		}
		cx /= float64(n)
		cy /= float64(n)

		for i := range nodes {
			dx := cx - nodes[i].X
			dy := cy - nodes[i].Y
			dist := math.Max(math.Sqrt(dx*dx+dy*dy), 1.0)
			force := gravityStrength * dist
			nodes[i].VX += (dx / dist) * force
			nodes[i].VY += (dy / dist) * force
		}

		for i := range nodes {
			dx := (nodes[i].X - cx) / aspectRatio
			dy := nodes[i].Y - cy
			currentRadius := math.Max(math.Sqrt(dx*dx+dy*dy), 0.1)
			idealRadius := initialRadii[i]

			radiusDiff := currentRadius - idealRadius
			force := -radiusDiff * radialStrength

			nx := dx / currentRadius
			ny := dy / currentRadius
			nodes[i].VX += nx * force * aspectRatio
			nodes[i].VY += ny * force
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := nodes[j].X - nodes[i].X
				dy := nodes[j].Y - nodes[i].Y
				distSq := math.Max(dx*dx+dy*dy, 1.0)
				dist := math.Sqrt(distSq)

				combinedWidth := (textWidths[i] + textWidths[j]) / 2.0
				tf := 1.0 + math.Min(combinedWidth/30.0, 1.0)
				adjustedRepulsion := repulsionStrength * tf

				force := adjustedRepulsion / distSq
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				nodes[i].VX -= fx
				nodes[i].VY -= fy
				nodes[j].VX += fx
				nodes[j].VY += fy
			}
		}

		for _, e := range edges {
			if e.From >= n || e.To >= n {
				continue
			}
			dx := nodes[e.To].X - nodes[e.From].X
			dy := nodes[e.To].Y - nodes[e.From].Y
			dist := math.Max(math.Sqrt(dx*dx+dy*dy), 1.0)

			displacement := dist - idealEdgeLength
			force := displacement * attractionStrength
			fx := (dx / dist) * force
			fy := (dy / dist) * force

			nodes[e.From].VX += fx
			nodes[e.From].VY += fy
			nodes[e.To].VX -= fx
			nodes[e.To].VY -= fy
		}

		for i := range nodes {
			speed := math.Sqrt(nodes[i].VX*nodes[i].VX + nodes[i].VY*nodes[i].VY)
			if speed > temperature {
				nodes[i].VX = (nodes[i].VX / speed) * temperature
				nodes[i].VY = (nodes[i].VY / speed) * temperature
			}
			nodes[i].X += nodes[i].VX * damping
			nodes[i].Y += nodes[i].VY * damping
		}

		for pass := 0; pass < 3; pass++ {
			resolveCollisions(nodes, textWidths, baseMinDistance, 0.6, 1.2, 1.0)
		}
	}

	for pass := 0; pass < 10; pass++ {
		resolveCollisions(nodes, textWidths, baseMinDistance, 0.5, 2.0, 0.0)
	}

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, node := range nodes {
		minX = math.Min(minX, node.X)
		minY = math.Min(minY, node.Y)
		maxX = math.Max(maxX, node.X)
		maxY = math.Max(maxY, node.Y)
	}
	_ = maxX
	_ = maxY

	const padding = 15.0
	for i := range nodes {
		nodes[i].X = nodes[i].X - minX + padding
		nodes[i].Y = nodes[i].Y - minY + padding/2.0
		nodes[i].HomeX = nodes[i].X
		nodes[i].HomeY = nodes[i].Y
	}

	return nodes
}

// resolveCollisions runs one pass of pairwise minimum-distance
// enforcement. widthFactor scales the text-aware padding term;
// pushExtra/pushDivisor parameterize the two push formulas the original
// used for its mid-simulation vs. final collision passes.
func resolveCollisions(nodes []Node, textWidths []float64, baseMinDistance, widthFactor, pushExtra, pushDivisor float64) {
	n := len(nodes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := nodes[j].X - nodes[i].X
			dy := nodes[j].Y - nodes[i].Y
			dist := math.Sqrt(dx*dx + dy*dy)

			halfWidthI := textWidths[i] / 2.0
			halfWidthJ := textWidths[j] / 2.0
			minDistance := baseMinDistance + (halfWidthI+halfWidthJ)*widthFactor

			if dist < minDistance && dist > 0.01 {
				overlap := minDistance - dist
				var push float64
				if pushDivisor > 0 {
					push = (overlap/2.0 + pushDivisor) * pushExtra
				} else {
					push = overlap/2.0 + pushExtra
				}
				nx := dx / dist
				ny := dy / dist

				nodes[i].X -= nx * push
				nodes[i].Y -= ny * push
				nodes[j].X += nx * push
				nodes[j].Y += ny * push
			}
		}
	}
}
