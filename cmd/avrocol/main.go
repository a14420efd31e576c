// Command avrocol is a thin demonstration CLI wiring the library's three
// hard-core components (schema, builder, rowappend) and the registry
// client end to end. It is explicitly outside the hard core (spec.md §1
// lists "CLI glue" as an external collaborator); it exists so the library
// can be exercised from a terminal the way the teacher's cmd/semango does
// for its own domain.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/memory"
	avro "github.com/hamba/avro/v2"
	"github.com/spf13/cobra"

	"github.com/omarkamali/avrocol/builder"
	"github.com/omarkamali/avrocol/internal/config"
	"github.com/omarkamali/avrocol/internal/obs"
	"github.com/omarkamali/avrocol/registry"
	"github.com/omarkamali/avrocol/rowappend"
	"github.com/omarkamali/avrocol/schema"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "avrocol",
	Short: "Translate, build, and append Avro rows into Arrow batches.",
	Long:  "avrocol bridges Avro wire schemas with Arrow columnar batches: schema translation, builder construction, row appending, and a reference-resolving schema registry client.",
}

var translateCmd = &cobra.Command{
	Use:   "translate <schema-file>",
	Short: "Translate an Avro schema file into its Arrow schema.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := parseSchemaFile(args[0])
		if err != nil {
			return obs.Wrap("cmd.translate", err)
		}
		arrowSchema, err := schema.TranslateRoot(s)
		if err != nil {
			return obs.Wrap("cmd.translate", err)
		}
		fmt.Println(arrowSchema.String())
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <schema-file> <rows-file>",
	Short: "Build an Arrow record batch by appending decoded rows from a JSON-lines file.",
	Long:  "Each line of rows-file is a JSON object matching the generic decode shape documented in SPEC_FULL.md §3.2 (map[string]any per record, []any for arrays, etc.) - not raw Avro binary, which is out of scope for this library (spec.md §1).",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return obs.Wrap("cmd.build", err)
		}
		s, err := parseSchemaFile(args[0])
		if err != nil {
			return obs.Wrap("cmd.build", err)
		}
		rec, ok := s.(*avro.RecordSchema)
		if !ok {
			return obs.Wrap("cmd.build", &schema.RootMustBeRecordError{Got: string(s.Type())})
		}

		rb, arrowSchema, err := builder.BuildSchema(s, cfg.Builder.CapacityHint, memory.NewGoAllocator())
		if err != nil {
			return obs.Wrap("cmd.build", err)
		}
		defer rb.Release()

		f, err := os.Open(args[1])
		if err != nil {
			return obs.Wrap("cmd.build", err)
		}
		defer f.Close()

		n := 0
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := sc.Bytes()
			if len(line) == 0 {
				continue
			}
			var row map[string]any
			if err := json.Unmarshal(line, &row); err != nil {
				return obs.Wrap("cmd.build", err)
			}
			for i, field := range rec.Fields() {
				if err := rowappend.Append(rb.Field(i), field.Type(), row[field.Name()]); err != nil {
					return obs.Wrap("cmd.build", err)
				}
			}
			n++
		}
		if err := sc.Err(); err != nil {
			return obs.Wrap("cmd.build", err)
		}

		arr := rb.NewRecord()
		defer arr.Release()

		obs.FromContext(context.Background()).Info("built record batch", "rows", n, "fields", arrowSchema.NumFields())
		fmt.Printf("appended %d rows into %d columns (%s)\n", n, arrowSchema.NumFields(), arrowSchema.String())
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <subject> <version>",
	Short: "Fetch and transitively expand a schema from the registry.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return obs.Wrap("cmd.fetch", err)
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return obs.Wrap("cmd.fetch", err)
		}

		client := registry.NewClient(cfg.Registry.BaseURL, &http.Client{Timeout: cfg.Registry.Timeout})
		reg := registry.NewAvroRegistry(client)

		s, err := reg.Get(cmd.Context(), args[0], version)
		if err != nil {
			return obs.Wrap("cmd.fetch", err)
		}
		fmt.Println(s.String())
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default avrocol.yml in the current directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(cfgPath); err != nil {
			return obs.Wrap("cmd.init", err)
		}
		obs.FromContext(context.Background()).Info("wrote default config", "path", cfgPath)
		return nil
	},
}

func parseSchemaFile(path string) (avro.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return avro.Parse(string(data))
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultConfigPath, "path to avrocol.yml")
	rootCmd.AddCommand(translateCmd, buildCmd, fetchCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		obs.LogError(obs.Logger, obs.Wrap("cmd", err))
		os.Exit(1)
	}
}
