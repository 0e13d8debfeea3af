package udtl

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

//TreeNode is a node of a tree. Tree is stored in an array. LeftIndex and RightIndex are equal to -1
//when the current node is a leaf otherwise they contain array indices of children.
//A leaf node contains LeafIndex that is an index of the LeafNodes array.
type TreeNode struct {
	TreeNodeId            int
	AttributeIndex        int
	Threshold             float64
	LeftIndex, RightIndex int // -1, -1 if it is a leaf
	LeafIndex             int // -1 if it is a non-leaf tree node
	WeightedCount         float64
	Dispersion            float64
	Depth                 int
}

func NewTreeNode() TreeNode {
	return TreeNode{TreeNodeId: 0, AttributeIndex: -1, LeftIndex: -1, RightIndex: -1, LeafIndex: -1}
}

//IsLeaf returns whether this node is a LeafNode.
func (node TreeNode) IsLeaf() bool {
	return node.LeafIndex != -1
}

//LeafNode stores per-class weights of the instances that reached the leaf.
type LeafNode struct {
	LeafNodeId        int
	ClassDistribution []float64
	MajorityClass     int
	WeightedCount     float64
	Error             float64
}

//NewLeafNode creates a leaf from accumulated class weights.
func NewLeafNode(classWeights []float64) LeafNode {
	class, fraction := majority(classWeights)
	return LeafNode{
		LeafNodeId:        -1,
		ClassDistribution: classWeights,
		MajorityClass:     class,
		WeightedCount:     floats.Sum(classWeights),
		Error:             1 - fraction,
	}
}

//DecisionTree is a binary tree over uncertain attributes. The root has index 0.
type DecisionTree struct {
	AttributeNames []string
	ClassNames     []string
	TreeNodes      []TreeNode
	LeafNodes      []LeafNode
}

func (tree *DecisionTree) attributeName(ind int) string {
	if ind >= 0 && ind < len(tree.AttributeNames) {
		return tree.AttributeNames[ind]
	}
	return fmt.Sprintf("a_%d", ind)
}

func (tree *DecisionTree) className(ind int) string {
	if ind >= 0 && ind < len(tree.ClassNames) {
		return tree.ClassNames[ind]
	}
	return fmt.Sprintf("c_%d", ind)
}

//Leaf returns the leaf information of a node.
func (tree *DecisionTree) Leaf(nodeIndex int) LeafNode {
	return tree.LeafNodes[tree.TreeNodes[nodeIndex].LeafIndex]
}

//TreeParams collect arguments required to build a tree.
type TreeParams struct {
	MinNodeWeight   float64
	PurityThreshold float64
	//MaxDepth limits the depth of the tree when positive.
	MaxDepth int
	Search   SplitSearch
}

//DefaultTreeParams uses the entropy histogram search on one thread.
func DefaultTreeParams() TreeParams {
	search, _ := NewSplitSearch("udt", "entropy", 1)
	return TreeParams{MinNodeWeight: 2, PurityThreshold: 1, Search: search}
}

func (params TreeParams) validate() error {
	if params.Search == nil {
		return fmt.Errorf("tree params: split search is not set")
	}
	if params.PurityThreshold <= 0 || params.PurityThreshold > 1 {
		return fmt.Errorf("tree params: purity threshold %g is outside of (0, 1]", params.PurityThreshold)
	}
	if params.MinNodeWeight < 0 {
		return fmt.Errorf("tree params: negative min node weight %g", params.MinNodeWeight)
	}
	return nil
}

//stopReason returns why a node must become a leaf, or an empty string.
func (params TreeParams) stopReason(weight, majorityFraction float64, depth int) string {
	switch {
	case weight < params.MinNodeWeight:
		return "weight"
	case majorityFraction >= params.PurityThreshold:
		return "purity"
	case params.MaxDepth > 0 && depth >= params.MaxDepth:
		return "depth"
	}
	return ""
}

type buildTask struct {
	instances []Instance
	parent    int
	left      bool
	depth     int
}

//BuildTree induces a tree top-down. Nodes are numbered in preorder, left subtree first.
//The work stack replaces recursion so deep trees do not exhaust the goroutine stack.
func BuildTree(ds DataSet, params TreeParams) (*DecisionTree, BuildMetrics, error) {
	var metrics BuildMetrics
	if err := ds.Validate(); err != nil {
		return nil, metrics, err
	}
	if err := params.validate(); err != nil {
		return nil, metrics, err
	}

	noClasses, noAttributes := ds.NoClasses(), ds.NoAttributes()
	tree := &DecisionTree{
		AttributeNames: ds.AttributeNames,
		ClassNames:     ds.ClassNames,
		TreeNodes:      make([]TreeNode, 0),
		LeafNodes:      make([]LeafNode, 0),
	}

	stack := []buildTask{{instances: ds.Instances, parent: -1}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		treeNodeId := len(tree.TreeNodes)
		if task.parent >= 0 {
			if task.left {
				tree.TreeNodes[task.parent].LeftIndex = treeNodeId
			} else {
				tree.TreeNodes[task.parent].RightIndex = treeNodeId
			}
		}
		if task.depth > metrics.Depth {
			metrics.Depth = task.depth
		}

		weights := classWeights(task.instances, noClasses)
		currentNode := NewTreeNode()
		currentNode.TreeNodeId = treeNodeId
		currentNode.WeightedCount = floats.Sum(weights)
		currentNode.Depth = task.depth
		_, fraction := majority(weights)

		reason := params.stopReason(currentNode.WeightedCount, fraction, task.depth)
		if reason == "" {
			bestSplit := params.Search.FindBestAttribute(task.instances, noClasses, noAttributes)
			metrics.addSearch(bestSplit.Stats)
			reason = "no split"
			if bestSplit.Valid {
				left, right, copies := partition(task.instances, bestSplit.AttributeIndex, bestSplit.Threshold)
				reason = "degenerate split"
				if len(left) > 0 && len(right) > 0 {
					metrics.FractionalCopies += copies
					currentNode.AttributeIndex = bestSplit.AttributeIndex
					currentNode.Threshold = bestSplit.Threshold
					currentNode.Dispersion = bestSplit.Dispersion
					tree.TreeNodes = append(tree.TreeNodes, currentNode)
					metrics.Nodes++

					log.Debug().Int("node", treeNodeId).Str("attribute", tree.attributeName(bestSplit.AttributeIndex)).
						Float64("threshold", bestSplit.Threshold).Float64("dispersion", bestSplit.Dispersion).
						Int("fractional", copies).Msg("split")

					stack = append(stack,
						buildTask{instances: right, parent: treeNodeId, left: false, depth: task.depth + 1},
						buildTask{instances: left, parent: treeNodeId, left: true, depth: task.depth + 1},
					)
					continue
				}
			}
		}

		leafNode := NewLeafNode(weights)
		leafNode.LeafNodeId = len(tree.LeafNodes)
		currentNode.LeafIndex = leafNode.LeafNodeId
		tree.TreeNodes = append(tree.TreeNodes, currentNode)
		tree.LeafNodes = append(tree.LeafNodes, leafNode)
		metrics.Nodes++
		metrics.Leaves++

		log.Debug().Int("node", treeNodeId).Str("reason", reason).Str("class", tree.className(leafNode.MajorityClass)).
			Float64("weight", leafNode.WeightedCount).Msg("leaf")
	}

	return tree, metrics, nil
}

//String prints the tree with one line per branch.
func (tree *DecisionTree) String() string {
	var sb strings.Builder
	if len(tree.TreeNodes) > 0 {
		tree.print(&sb, 0, 0)
	}
	return sb.String()
}

func (tree *DecisionTree) print(sb *strings.Builder, nodeIndex, indent int) {
	node := tree.TreeNodes[nodeIndex]
	if node.IsLeaf() {
		leaf := tree.Leaf(nodeIndex)
		sb.WriteString(fmt.Sprintf(" %s ( %.4f, %.4f )\n", tree.className(leaf.MajorityClass), leaf.WeightedCount, leaf.Error))
		return
	}

	prefix := strings.Repeat("|   ", indent)
	name := tree.attributeName(node.AttributeIndex)
	sb.WriteString(fmt.Sprintf("\n%s%s ( <= %.6g ) :", prefix, name, node.Threshold))
	tree.print(sb, node.LeftIndex, indent+1)
	sb.WriteString(fmt.Sprintf("%s%s ( > %.6g ) :", prefix, name, node.Threshold))
	tree.print(sb, node.RightIndex, indent+1)
}

//GraphDescription returns the description of a tree node for tree rendering as a graph
func (tree *DecisionTree) GraphDescription(nodeIndex int) string {
	node := tree.TreeNodes[nodeIndex]
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("id: ", node.TreeNodeId))
	sb.WriteString(fmt.Sprintf("w: %.4f\n", node.WeightedCount))
	if node.IsLeaf() {
		leaf := tree.Leaf(nodeIndex)
		sb.WriteString(fmt.Sprintf("%s\nerr: %.4f", tree.className(leaf.MajorityClass), leaf.Error))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintln("disp: ", fmt.Sprintf("%.4f", node.Dispersion)))
	sb.WriteString(fmt.Sprintf("%s <= %6.5f", tree.attributeName(node.AttributeIndex), node.Threshold))
	return sb.String()
}

func recurrentDraw(g *cgraph.Graph, tree *DecisionTree, nodeNumber int, parentNode *cgraph.Node, edgeLabel string) error {
	currentNode, err := g.CreateNode(fmt.Sprint(tree.TreeNodes[nodeNumber].TreeNodeId))
	if err != nil {
		return err
	}

	if parentNode != nil {
		edge, err := g.CreateEdge("", parentNode, currentNode)
		if err != nil {
			return err
		}
		edge.Set("label", edgeLabel)
	}

	currentNode.Set("label", tree.GraphDescription(nodeNumber))
	if tree.TreeNodes[nodeNumber].IsLeaf() {
		currentNode.Set("shape", "box")
		return nil
	}
	if err := recurrentDraw(g, tree, tree.TreeNodes[nodeNumber].LeftIndex, currentNode, "yes"); err != nil {
		return err
	}
	return recurrentDraw(g, tree, tree.TreeNodes[nodeNumber].RightIndex, currentNode, "no")
}

//DrawGraph converts the tree into a graphviz graph. The caller closes both returned objects.
func (tree *DecisionTree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		_ = graphViz.Close()
		return nil, nil, err
	}

	if len(tree.TreeNodes) > 0 {
		if err := recurrentDraw(graph, tree, 0, nil, ""); err != nil {
			_ = graph.Close()
			_ = graphViz.Close()
			return nil, nil, err
		}
	}
	return graphViz, graph, nil
}
