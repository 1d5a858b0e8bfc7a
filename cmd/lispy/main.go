package main

import (
	"fmt"
	"os"
	"strings"

	"git.brobridge.com/lispy/lispy/pkg/app/instance"
	repl_service "git.brobridge.com/lispy/lispy/pkg/repl/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {

	debugLevel := log.InfoLevel
	switch os.Getenv("LISPY_DEBUG") {
	case log.TraceLevel.String():
		debugLevel = log.TraceLevel
	case log.DebugLevel.String():
		debugLevel = log.DebugLevel
	case log.ErrorLevel.String():
		debugLevel = log.ErrorLevel
	}

	// Results go to stdout, logs stay out of the way
	log.SetOutput(os.Stderr)
	log.SetLevel(debugLevel)

	// From the environment
	viper.SetEnvPrefix("LISPY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func loadConfig(path string) {

	if len(path) > 0 {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./")
		viper.AddConfigPath("./configs")
	}

	err := viper.ReadInConfig()
	if err != nil {
		log.WithFields(log.Fields{
			"reason": err,
		}).Warn("No configuration file was loaded")
		return
	}

	log.WithFields(log.Fields{
		"file": viper.ConfigFileUsed(),
	}).Debug("Loaded configuration")
}

type cliOptions struct {
	configFile string
	password   string
}

// parseFlags reads the command line and binds the flags viper serves.
func parseFlags(args []string) (*cliOptions, error) {

	opts := &cliOptions{}

	flags := pflag.NewFlagSet("lispy", pflag.ContinueOnError)
	flags.StringVar(&opts.configFile, "config", "", "path to a configuration file")
	flags.String("batch", "", "evaluate every line of a file (\"-\" for stdin) and exit")
	flags.StringVar(&opts.password, "encrypt-password", "", "print the encrypted form of a journal password and exit")

	err := flags.Parse(args)
	if err != nil {
		return nil, err
	}

	err = viper.BindPFlag("batch.path", flags.Lookup("batch"))
	if err != nil {
		return nil, err
	}

	return opts, nil
}

func main() {

	opts, err := parseFlags(os.Args[1:])
	if err == pflag.ErrHelp {
		return
	} else if err != nil {
		log.Fatal(err)
	}

	loadConfig(opts.configFile)

	if len(opts.password) > 0 {
		viper.SetDefault("journal.secretKey", repl_service.DefaultSecretKey)
		encrypted, err := repl_service.AesEncrypt([]byte(viper.GetString("journal.secretKey")), opts.password)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(encrypted)
		return
	}

	// Initializing application
	a := instance.NewAppInstance()

	err = a.Init()
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}

	if path := viper.GetString("batch.path"); len(path) > 0 {
		err = a.RunBatch(path)
	} else {
		err = a.Run()
	}

	if err != nil {
		log.Fatal(err)
	}
}
