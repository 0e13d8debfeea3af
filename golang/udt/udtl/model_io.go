package udtl

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

//Check verifies the structure of a decoded tree.
func (tree *DecisionTree) Check() error {
	if len(tree.TreeNodes) == 0 {
		return dataErrorf("tree without nodes")
	}
	for ind, node := range tree.TreeNodes {
		if node.IsLeaf() {
			if node.LeafIndex < 0 || node.LeafIndex >= len(tree.LeafNodes) {
				return dataErrorf("node %d refers to missing leaf %d", ind, node.LeafIndex)
			}
			if leaf := tree.LeafNodes[node.LeafIndex]; len(leaf.ClassDistribution) != len(tree.ClassNames) {
				return dataErrorf("leaf %d has %d classes instead of %d", node.LeafIndex, len(leaf.ClassDistribution), len(tree.ClassNames))
			}
			continue
		}
		if node.LeftIndex <= ind || node.LeftIndex >= len(tree.TreeNodes) || node.RightIndex <= ind || node.RightIndex >= len(tree.TreeNodes) {
			return dataErrorf("node %d has bad children %d and %d", ind, node.LeftIndex, node.RightIndex)
		}
		if node.AttributeIndex < 0 || node.AttributeIndex >= len(tree.AttributeNames) {
			return dataErrorf("node %d splits missing attribute %d", ind, node.AttributeIndex)
		}
	}
	return nil
}

//MarshalTree encodes the tree as indented JSON.
func MarshalTree(tree *DecisionTree) ([]byte, error) {
	return json.MarshalIndent(tree, "", "  ")
}

//UnmarshalTree decodes and checks a tree.
func UnmarshalTree(data []byte) (*DecisionTree, error) {
	tree := &DecisionTree{}
	if err := json.Unmarshal(data, tree); err != nil {
		return nil, err
	}
	if err := tree.Check(); err != nil {
		return nil, err
	}
	return tree, nil
}

//SaveTree writes the tree into a JSON file.
func SaveTree(tree *DecisionTree, filename string) error {
	modelByteRepr, err := MarshalTree(tree)
	if err != nil {
		return &PersistenceError{Op: "encode", Path: filename, Err: err}
	}
	if err := os.WriteFile(filename, modelByteRepr, 0o644); err != nil {
		return &PersistenceError{Op: "write", Path: filename, Err: err}
	}
	return nil
}

//LoadTree reads a tree written by SaveTree.
func LoadTree(filename string) (*DecisionTree, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: filename, Err: err}
	}
	tree, err := UnmarshalTree(data)
	if err != nil {
		return nil, &PersistenceError{Op: "decode", Path: filename, Err: err}
	}
	return tree, nil
}

//WritePredictions stores a matrix of class distributions as a npy file.
func WritePredictions(prediction *mat.Dense, filename string) (err error) {
	dst, err := os.Create(filename)
	if err != nil {
		return &PersistenceError{Op: "create", Path: filename, Err: err}
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = &PersistenceError{Op: "close", Path: filename, Err: closeErr}
		}
	}()

	if err := npyio.Write(dst, prediction); err != nil {
		return &PersistenceError{Op: "write", Path: filename, Err: err}
	}
	return nil
}

var figureTypes = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
	"dot": graphviz.XDOT,
}

//RenderTree draws the tree into a picture of the given type: png, svg, jpg or dot.
func RenderTree(tree *DecisionTree, figureType, filename string) error {
	graphvizType, ok := figureTypes[strings.ToLower(figureType)]
	if !ok {
		return fmt.Errorf("unknown figure type %q", figureType)
	}

	graphViz, graph, err := tree.DrawGraph()
	if err != nil {
		return err
	}
	defer func() {
		_ = graph.Close()
		_ = graphViz.Close()
	}()

	if err := graphViz.RenderFilename(graph, graphvizType, filename); err != nil {
		return &PersistenceError{Op: "render", Path: filename, Err: err}
	}
	return nil
}
