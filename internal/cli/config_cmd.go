package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/platesync/internal/core"
)

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the saved import configuration",
	}
	cmd.AddCommand(
		newConfigShowCommand(app),
		app.configSetter("set-url <url>", "Set the spreadsheet link", cobra.ExactArgs(1),
			func(cfg *core.ImportConfig, args []string) error {
				return cfg.SetSourceURL(args[0])
			}),
		app.configSetter("set-header-row <n>", "Set the 1-based header row number", cobra.ExactArgs(1),
			func(cfg *core.ImportConfig, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("%w: %q is not a row number", core.ErrHeaderRowOutOfRange, args[0])
				}
				return cfg.SetHeaderRow(n)
			}),
		app.configSetter("map <field> <column>", "Map a field to a 0-based column index", cobra.ExactArgs(2),
			func(cfg *core.ImportConfig, args []string) error {
				key, err := core.ParseFieldKey(args[0])
				if err != nil {
					return err
				}
				return cfg.SetColumn(key, args[1])
			}),
		app.configSetter("unmap <field>", "Remove a field's manual column", cobra.ExactArgs(1),
			func(cfg *core.ImportConfig, args []string) error {
				key, err := core.ParseFieldKey(args[0])
				if err != nil {
					return err
				}
				cfg.ClearColumn(key)
				return nil
			}),
		app.configSetter("keywords <field> <comma separated keywords>", "Replace a field's header keywords", cobra.MinimumNArgs(2),
			func(cfg *core.ImportConfig, args []string) error {
				key, err := core.ParseFieldKey(args[0])
				if err != nil {
					return err
				}
				return cfg.SetKeywords(key, strings.Join(args[1:], " "))
			}),
		&cobra.Command{
			Use:   "reset",
			Short: "Remove the saved configuration and restore the first-run defaults",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := app.resetConfig(cmd.Context())
				if err != nil {
					return err
				}
				return app.writeConfig(cmd, cfg)
			},
		},
	)
	return cmd
}

// configSetter builds a subcommand that loads the config, applies edit and
// saves it before printing the result.
func (a *App) configSetter(use, short string, args cobra.PositionalArgs, edit func(*core.ImportConfig, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.mutateConfig(cmd.Context(), func(cfg *core.ImportConfig) error {
				return edit(cfg, args)
			})
			if err != nil {
				return err
			}
			return a.writeConfig(cmd, cfg)
		},
	}
}

func newConfigShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved configuration and effective keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			return app.writeConfig(cmd, cfg)
		},
	}
}

// configView is the YAML shape of `config show`.
type configView struct {
	SourceURL       string            `yaml:"source_url"`
	HeaderRowNumber int               `yaml:"header_row_number"`
	MappingMode     string            `yaml:"mapping_mode"`
	ColumnMapping   yaml.Node         `yaml:"column_mapping"`
	HeaderLabels    []string          `yaml:"cached_header_labels,omitempty"`
	Keywords        yaml.Node         `yaml:"keywords"`
	Store           map[string]string `yaml:"store"`
}

func (a *App) writeConfig(cmd *cobra.Command, cfg *core.ImportConfig) error {
	mode := "heuristic"
	if cfg.ColumnMapping.IsManual() {
		mode = "manual"
	}

	keys := core.AllFieldKeys(a.importer.VehicleSlots())
	kw := a.importer.KeywordsFor(cfg)

	mapped := func(k core.FieldKey) (string, bool) {
		v := strings.TrimSpace(cfg.ColumnMapping[k])
		return v, v != ""
	}
	keywords := func(k core.FieldKey) (string, bool) {
		return core.KeywordText(kw[k]), true
	}

	view := configView{
		SourceURL:       cfg.SourceURL,
		HeaderRowNumber: cfg.HeaderRowNumber,
		MappingMode:     mode,
		ColumnMapping:   orderedMap(keys, mapped),
		HeaderLabels:    cfg.CachedHeaderLabels,
		Keywords:        orderedMap(keys, keywords),
		Store:           map[string]string{"backend": a.cfg.Store.Backend},
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return err
	}
	return enc.Close()
}

// orderedMap renders a YAML mapping with keys in field order.
func orderedMap(keys []core.FieldKey, value func(core.FieldKey) (string, bool)) yaml.Node {
	node := yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		v, ok := value(k)
		if !ok {
			continue
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(k)},
			&yaml.Node{Kind: yaml.ScalarNode, Value: v, Style: yaml.DoubleQuotedStyle},
		)
	}
	return node
}
