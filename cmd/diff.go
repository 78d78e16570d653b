package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"datajoin/core/join"
	"datajoin/core/reconcile"
	"datajoin/core/utils"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var diffKey string

// diffCmd reconciles two files as consecutive versions of one collection.
var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare two versions of a collection",
	Long: `Binds the objects of <old> and then <new> to one join and reports which
identities entered, were updated, or exited.

Both files hold an array of objects, as JSON or as YAML (.yaml, .yml).

Examples:
  datajoin diff items-v1.json items-v2.json --key id
  datajoin diff old.yaml new.yaml --key sku`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiff(cmd.OutOrStdout(), args[0], args[1], diffKey)
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffKey, "key", "id", "Field identifying each object")
	RootCmd.AddCommand(diffCmd)
}

func runDiff(w io.Writer, oldPath, newPath, key string) error {
	if key == "" {
		return fmt.Errorf("--key must not be empty")
	}

	previous, err := readCollection(oldPath)
	if err != nil {
		return err
	}
	current, err := readCollection(newPath)
	if err != nil {
		return err
	}

	j := join.New(join.WithEqual[string](func(a, b map[string]any) bool {
		return reflect.DeepEqual(a, b)
	}))
	rule := join.Func(func(obj map[string]any) (string, error) {
		v, ok := obj[key]
		if !ok || v == nil {
			return "", fmt.Errorf("%w: %q", join.ErrFieldNotFound, key)
		}
		return utils.ToString(v), nil
	})

	if err := j.Bind(previous, rule); err != nil {
		return fmt.Errorf("failed to bind %s: %w", oldPath, err)
	}
	if err := j.Bind(current, rule); err != nil {
		return fmt.Errorf("failed to bind %s: %w", newPath, err)
	}

	return writeReport(w, reconcile.NewReport(filepath.Base(newPath), j))
}

// readCollection decodes a JSON or YAML array of objects.
func readCollection(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var objects []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &objects)
	default:
		err = json.Unmarshal(data, &objects)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return objects, nil
}
