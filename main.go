// Package main provides the entry point for the xhinobi CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/xhinobi/xhinobi/internal/aggregate"
	"github.com/xhinobi/xhinobi/internal/cache"
	"github.com/xhinobi/xhinobi/internal/token"
	"github.com/xhinobi/xhinobi/internal/transfer"
	"github.com/xhinobi/xhinobi/ui"
	"github.com/xhinobi/xhinobi/utils"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string

	prependFileName bool
	minify          bool
	ignorePatterns  []string
	withTree        bool
	osc52           bool
	decommentFlag   bool

	useCache     bool
	listCache    bool
	clearCache   bool
	cacheDir     string
	showCacheDir bool
	rebuildIndex bool

	rootCmd = &cobra.Command{
		Use:   "xhinobi",
		Short: "Aggregate text content from multiple files",
		Long: paragraph(
			fmt.Sprintf("\nRead file paths from stdin, %s their contents, and send the result to your clipboard. Every result is cached for later retrieval.", keyword("aggregate")),
		),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadOptions(cmd)
		},
		RunE: execute,
	}
)

func loadOptions(*cobra.Command) error {
	prependFileName = viper.GetBool("prependFileName")
	minify = viper.GetBool("minify")
	withTree = viper.GetBool("tree")
	osc52 = viper.GetBool("osc52")
	decommentFlag = viper.GetBool("decomment")
	cacheDir = viper.GetString("cache.dir")
	return nil
}

// cacheLimits maps configuration onto the retention bounds, keeping the
// defaults for unset or nonsense values.
func cacheLimits() cache.Limits {
	limits := cache.DefaultLimits()
	if n := viper.GetInt("cache.max_entries"); n > 0 {
		limits.MaxEntries = n
	}
	if n := viper.GetInt64("cache.max_size_mb"); n > 0 {
		limits.MaxTotalBytes = n * 1024 * 1024
	}
	if n := viper.GetInt("cache.max_age_days"); n > 0 {
		limits.MaxAge = time.Duration(n) * 24 * time.Hour
	}
	return limits
}

func openStore() (*cache.Store, error) {
	root, err := cache.ResolveDir(utils.ExpandPath(cacheDir))
	if err != nil {
		return nil, err
	}
	return cache.New(root, cacheLimits()), nil
}

func execute(*cobra.Command, []string) error {
	switch {
	case showCacheDir:
		store, err := openStore()
		if err != nil {
			return err
		}
		fmt.Println(store.Root())
		return nil

	case clearCache:
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Cache cleared successfully")
		return nil

	case rebuildIndex:
		store, err := openStore()
		if err != nil {
			return err
		}
		n, err := store.Rebuild()
		if err != nil {
			return err
		}
		fmt.Printf("Rebuilt cache index (%d entries)\n", n)
		return nil

	case useCache:
		store, err := openStore()
		if err != nil {
			return err
		}
		entry, err := store.MostRecent()
		if errors.Is(err, cache.ErrEmptyCache) {
			fmt.Println("No cache found")
			return nil
		}
		if err != nil {
			return err
		}
		deliver(entry.Content, entry.TokenCount, entry.TokenCounter)
		return nil

	case listCache:
		return runPicker()
	}

	return aggregateAndShip()
}

func aggregateAndShip() error {
	opts := aggregate.Options{
		PrependFileName: prependFileName,
		Minify:          minify,
		Tree:            withTree,
		Decomment:       decommentFlag,
		Ignore:          ignorePatterns,
	}

	paths, err := inputPaths()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	files := aggregate.Gather(paths, opts)
	output := aggregate.Build(files, opts)
	if output == "" {
		return nil
	}

	count := token.Estimate(output)
	deliver(output, count, token.CounterEstimate)

	store, err := openStore()
	if err != nil {
		return err
	}
	res, err := store.Save(output, cache.SaveMeta{
		SourceFileCount: len(files),
		ArgsUsed:        strings.Join(os.Args[1:], " "),
		TokenCount:      count,
		TokenCounter:    token.CounterEstimate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Cached result (%d characters, %s%s tokens)\n",
		res.Bytes, token.Prefix(token.CounterEstimate), keyword(fmt.Sprint(res.Tokens)))
	return nil
}

// inputPaths reads the file list from stdin when piped; on a terminal it
// falls back to discovering text files under the working directory.
func inputPaths() ([]string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return aggregate.ReadPaths(os.Stdin), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("unable to get working directory: %w", err)
	}
	log.Debug("no stdin pipe, discovering files", "dir", cwd)
	return aggregate.Discover(cwd, ignorePatterns)
}

func runPicker() error {
	store, err := openStore()
	if err != nil {
		return err
	}

	entries, err := store.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No cached entries found.")
		return nil
	}

	choice, err := ui.Select(entries)
	if err != nil {
		return err
	}
	if choice == nil {
		fmt.Println("Selection cancelled.")
		return nil
	}

	entry, err := store.Load(choice.Filename)
	if err != nil {
		return err
	}
	deliver(entry.Content, entry.TokenCount, entry.TokenCounter)
	return nil
}

// deliver sends content through the configured transfer strategy, printing
// the content itself as a last resort so the run is never wasted.
func deliver(content string, tokens int, counter string) {
	method, err := transfer.Copy(content, osc52)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Clipboard copy failed: %v\n", err)
		fmt.Println("Printing content instead:")
		fmt.Println(content)
		return
	}

	if method == transfer.MethodEditor {
		fmt.Printf("Opened %d characters (%s%s tokens) in your editor\n",
			len(content), token.Prefix(counter), keyword(fmt.Sprint(tokens)))
		return
	}
	fmt.Printf("Copied %d characters (%s%s tokens) to clipboard via %s\n",
		len(content), token.Prefix(counter), keyword(fmt.Sprint(tokens)), method)
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().BoolVarP(&prependFileName, "prependFileName", "n", false, "prepend the file name before the content")
	rootCmd.Flags().BoolVarP(&minify, "minify", "m", false, "minify the output")
	rootCmd.Flags().StringArrayVarP(&ignorePatterns, "ignore", "i", nil, "glob patterns to ignore (can be used multiple times)")
	rootCmd.Flags().BoolVarP(&withTree, "tree", "t", false, "prepend the output with a directory tree (requires 'tree' command)")
	rootCmd.Flags().BoolVarP(&osc52, "osc52", "o", false, "use OSC52 escape sequence for clipboard over SSH")
	rootCmd.Flags().BoolVarP(&decommentFlag, "decomment", "d", false, "remove comments from source files")
	rootCmd.Flags().BoolVar(&useCache, "cache", false, "copy most recent cached result to clipboard (no stdin needed)")
	rootCmd.Flags().BoolVar(&listCache, "list-cache", false, "show interactive list of cached sessions")
	rootCmd.Flags().BoolVar(&clearCache, "clear-cache", false, "clear all cached sessions")
	rootCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "override default cache directory")
	rootCmd.Flags().BoolVar(&showCacheDir, "show-cache-dir", false, "show the cache directory path")
	rootCmd.Flags().BoolVar(&rebuildIndex, "rebuild-cache-index", false, "rebuild the cache index from the files on disk")

	// Config bindings
	_ = viper.BindPFlag("prependFileName", rootCmd.Flags().Lookup("prependFileName"))
	_ = viper.BindPFlag("minify", rootCmd.Flags().Lookup("minify"))
	_ = viper.BindPFlag("tree", rootCmd.Flags().Lookup("tree"))
	_ = viper.BindPFlag("osc52", rootCmd.Flags().Lookup("osc52"))
	_ = viper.BindPFlag("decomment", rootCmd.Flags().Lookup("decomment"))
	_ = viper.BindPFlag("cache.dir", rootCmd.Flags().Lookup("cache-dir"))

	viper.SetDefault("prependFileName", false)
	viper.SetDefault("minify", false)
	viper.SetDefault("tree", false)
	viper.SetDefault("osc52", false)
	viper.SetDefault("decomment", false)
	viper.SetDefault("cache.dir", "")
	viper.SetDefault("cache.max_entries", 50)
	viper.SetDefault("cache.max_size_mb", 100)
	viper.SetDefault("cache.max_age_days", 90)

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "xhinobi")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "xhinobi")}, dirs...)
	}

	if c := os.Getenv("XHINOBI_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("xhinobi")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("xhinobi")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "xhinobi.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
