package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/ini.v1"

	"github.com/steelcutops/spinperm/logger"
	"github.com/steelcutops/spinperm/spinperm/host"
	"github.com/steelcutops/spinperm/spinperm/hostgroup"
	"github.com/steelcutops/spinperm/spinperm/rulemanager"
	"github.com/steelcutops/spinperm/spinperm/setup"
)

var log = logrus.New()

type flags struct {
	CheckDeps          bool
	CheckHealth        bool
	Concurrency        int
	Debug              bool
	Group              string
	Hostnames          hostnamesValue
	IniFilePath        string
	KeyPassPrompt      bool
	LogFileName        string
	PasswordPrompt     bool
	RulesFile          string
	ShowRules          bool
	SudoPasswordPrompt bool
	Username           string
}

type hostnamesValue []string

func (h *hostnamesValue) String() string {
	return strings.Join(*h, ",")
}

func (h *hostnamesValue) Set(value string) error {
	*h = append(*h, value)
	return nil
}

func parseFlags() *flags {
	f := &flags{}
	flag.BoolVar(&f.CheckDeps, "check-deps", false, "Warn when libusb is not installed on the host")
	flag.BoolVar(&f.CheckHealth, "check-health", false, "Ping remote hosts before configuring them")
	flag.BoolVar(&f.Debug, "debug", false, "Enable debug log level")
	flag.BoolVar(&f.KeyPassPrompt, "keypass", false, "Prompt for the passphrase decrypting SSH keys")
	flag.BoolVar(&f.PasswordPrompt, "password", false, "Prompt for a password for the SSH connection")
	flag.BoolVar(&f.ShowRules, "show-rules", false, "Print the installed udev rule file and exit")
	flag.BoolVar(&f.SudoPasswordPrompt, "sudo-password", false, "Prompt for a sudo password")
	flag.IntVar(&f.Concurrency, "concurrency", 10, "Maximum number of hosts configured at once")
	flag.StringVar(&f.Group, "group", setup.DefaultGroup, "Device-access group to create and populate")
	flag.StringVar(&f.IniFilePath, "ini", "", "Path to INI file with host inventory")
	flag.StringVar(&f.LogFileName, "log", "", "Log file name (default stderr)")
	flag.StringVar(&f.RulesFile, "rules-file", rulemanager.DefaultRulesPath, "udev rule file to append to")
	flag.StringVar(&f.Username, "username", "", "Username to use for the SSH connection")
	flag.Var(&f.Hostnames, "hostname", "Hostname to configure (repeatable; default localhost)")

	flag.Parse()

	return f
}

func configureLogger(f *flags) io.Writer {
	out := io.Writer(os.Stderr)
	if f.LogFileName != "" {
		file, err := os.OpenFile(f.LogFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			log.Fatal(err)
		}
		out = file
	}

	log.SetOutput(out)
	if f.Debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return out
}

func slogLevel(f *flags) slog.Level {
	if f.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func readHostsFromFile(filePath string) (map[string][]string, error) {
	cfg, err := ini.Load(filePath)
	if err != nil {
		return nil, err
	}

	hosts := make(map[string][]string)

	for _, section := range cfg.Sections() {
		name := section.Name()
		for _, key := range section.Keys() {
			hosts[name] = append(hosts[name], key.String())
		}
	}

	return hosts, nil
}

func readPasswords(f *flags) (password, keyPass string) {
	if f.PasswordPrompt {
		fmt.Print("Enter the password: ")
		passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			log.Errorf("Failed to read password: %v", err)
		}
		password = string(passwordBytes)
		fmt.Println()
	}

	if f.KeyPassPrompt {
		fmt.Print("Enter the key passphrase: ")
		keyPassBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			log.Errorf("Failed to read key passphrase: %v", err)
		}
		keyPass = string(keyPassBytes)
		fmt.Println()
	}
	return
}

func buildHostOptions(f *flags, password, keyPass string) []host.HostOption {
	var options []host.HostOption
	if f.Username != "" {
		options = append(options, host.WithUser(f.Username))
	}
	if password != "" {
		options = append(options, host.WithPassword(password))
	}
	if keyPass != "" {
		options = append(options, host.WithKeyPassphrase(keyPass))
	}
	if f.SudoPasswordPrompt {
		fmt.Print("Enter the sudo password: ")
		sudoPasswordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			log.Errorf("Failed to read sudo password: %v", err)
		}
		fmt.Println()
		if sudoPassword := string(sudoPasswordBytes); sudoPassword != "" {
			options = append(options, host.WithSudoPassword(sudoPassword))
		}
	}
	options = append(options, host.WithSSHClient(&host.RealSSHClient{}))
	return options
}

func targetHostnames(f *flags) []string {
	names := []string(f.Hostnames)

	if f.IniFilePath != "" {
		hostsMap, err := readHostsFromFile(f.IniFilePath)
		if err != nil {
			log.Fatalf("Failed to read INI file: %v", err)
		}
		for group, hosts := range hostsMap {
			log.Debugf("Adding hosts from inventory group %s", group)
			names = append(names, hosts...)
		}
	}

	if len(names) == 0 {
		names = []string{"localhost"}
	}
	return names
}

func initializeHosts(names []string, options []host.HostOption) *hostgroup.HostGroup {
	hg := hostgroup.NewHostGroup()

	for _, hostname := range names {
		log.Debugf("Adding host %s", hostname)
		server, err := host.NewHost(hostname, options...)
		if err != nil {
			log.Errorf("Failed to create new host %s: %v", hostname, err)
			continue
		}
		hg.AddHost(server)
	}

	return hg
}

func processHosts(hg *hostgroup.HostGroup, action func(h *host.Host) error, maxConcurrency int) error {
	sem := make(chan struct{}, maxConcurrency)
	errCh := make(chan error, hg.Len())
	var wg sync.WaitGroup

	hg.RLock()
	for _, hst := range hg.Hosts {
		wg.Add(1)
		go func(h *host.Host) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := action(h); err != nil {
				errCh <- fmt.Errorf("error while processing host %s: %w", h.Hostname, err)
			}
		}(hst)
	}
	hg.RUnlock()

	wg.Wait()
	close(errCh)

	var result *multierror.Error
	for err := range errCh {
		result = multierror.Append(result, err)
	}

	if result != nil {
		for _, err := range result.Errors {
			log.Errorf("Host processing error: %v", err)
		}
		return result
	}

	return nil
}

func containsLocal(names []string) bool {
	for _, name := range names {
		if name == "localhost" || name == "127.0.0.1" {
			return true
		}
	}
	return false
}

// exitCode maps the aggregated run error to the documented statuses:
// 1 only when a username given on the command line does not exist.
func exitCode(err error, argumentMode bool) int {
	if err != nil && argumentMode && errors.Is(err, setup.ErrUserNotFound) {
		return 1
	}
	return 0
}

// setupConfig starts from the defaults and layers the flag overrides on
// top.
func setupConfig(f flags) setup.Config {
	config := setup.DefaultConfig()
	config.Group = f.Group
	config.RulesPath = f.RulesFile
	return config
}

func main() {
	f := parseFlags()
	logOut := configureLogger(f)

	usernames := flag.Args()
	argumentMode := len(usernames) > 0

	names := targetHostnames(f)

	// Configuring the local machine needs real root; remote hosts
	// escalate through sudo instead.
	if containsLocal(names) && os.Geteuid() != 0 {
		fmt.Println("This tool must run as root to configure the local machine.")
		fmt.Println("Re-run it with, for example: sudo spinperm <username>")
		os.Exit(0)
	}

	password, keyPass := readPasswords(f)
	options := buildHostOptions(f, password, keyPass)
	hg := initializeHosts(names, options)

	if hg.Len() == 0 {
		log.Fatal("No usable hosts")
	}

	ctx := context.Background()
	setupLog := logger.NewWithOptions(logOut, slogLevel(f))
	config := setupConfig(*f)

	if f.ShowRules {
		err := processHosts(hg, func(h *host.Host) error {
			return setup.New(h, setupLog, os.Stdout, config).ShowRules(ctx)
		}, f.Concurrency)
		os.Exit(exitCode(err, argumentMode))
	}

	if !argumentMode {
		usernames = collectInteractive(ctx, hg, config)
	}

	err := processHosts(hg, func(h *host.Host) error {
		s := setup.New(h, setupLog, os.Stdout, config)

		if f.CheckHealth && !h.IsLocal() {
			if _, err := h.NetworkManager.Ping(ctx, h.Hostname); err != nil {
				return fmt.Errorf("host %s is not reachable: %w", h.Hostname, err)
			}
		}

		if f.CheckDeps {
			if err := s.CheckDependencies(ctx); err != nil {
				return err
			}
		}

		return s.Run(ctx, usernames)
	}, f.Concurrency)

	os.Exit(exitCode(err, argumentMode))
}

// collectInteractive runs the prompt loop once, validating names against
// the first host in the set (the local machine on default runs).
func collectInteractive(ctx context.Context, hg *hostgroup.HostGroup, config setup.Config) []string {
	reference := pickReferenceHost(hg)
	if reference == nil {
		log.Fatal("No host available for username validation")
	}

	prompter := setup.NewPrompter(os.Stdin, os.Stdout)
	usernames, err := prompter.CollectUsernames(ctx, reference.UserManager, config.Group)
	if err != nil {
		log.Fatalf("Failed to read usernames: %v", err)
	}
	if len(usernames) == 0 {
		fmt.Println("No users entered; nothing to do.")
		os.Exit(0)
	}
	return usernames
}

func pickReferenceHost(hg *hostgroup.HostGroup) *host.Host {
	hg.RLock()
	defer hg.RUnlock()

	for _, h := range hg.Hosts {
		if h.IsLocal() {
			return h
		}
	}
	for _, h := range hg.Hosts {
		return h
	}
	return nil
}
