package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"git.brobridge.com/lispy/lispy/pkg/app"
	"github.com/BrobridgeOrg/broton"
	"github.com/chzyer/readline"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultPrompt       = "lispy> "
	DefaultBanner       = "Lispy Version 0.0.0.0.1\nPress Ctrl+c to Exit\n"
	DefaultHistoryLimit = 500

	EncryptedPasswordEnv = "LISPY_JOURNAL_ENCRYPTED_PASSWORD"
)

type Service struct {
	app        app.App
	storeMgr   *broton.Broton
	session    *Session
	journal    *Journal
	publisher  *EventPublisher
	clientName string
}

func NewService(a app.App) *Service {
	return &Service{
		app:     a,
		session: NewSession(),
	}
}

func (svc *Service) GetSession() *Session {
	return svc.session
}

func (svc *Service) Init() error {

	// Using hostname by default
	host, err := os.Hostname()
	if err != nil {
		log.Error(err)
		return err
	}

	host = strings.ReplaceAll(host, ".", "_")

	svc.clientName = fmt.Sprintf("lispy-%s-%d", host, os.Getpid())

	err = svc.initStore()
	if err != nil {
		log.Error(err)
		return errors.Wrap(err, "failed to initialize store")
	}

	err = svc.initJournal()
	if err != nil {
		log.Error(err)
		return errors.Wrap(err, "failed to initialize journal")
	}

	svc.initPublisher()

	return nil
}

func (svc *Service) initStore() error {

	viper.SetDefault("store.enabled", false)
	if !viper.GetBool("store.enabled") {
		return nil
	}

	viper.SetDefault("store.path", "./store")
	options := broton.NewOptions()
	options.DatabasePath = viper.GetString("store.path")

	log.WithFields(log.Fields{
		"path": options.DatabasePath,
	}).Info("Initializing store")

	storeMgr, err := broton.NewBroton(options)
	if err != nil {
		return err
	}

	svc.storeMgr = storeMgr

	store, err := storeMgr.GetStore(StatsStoreName)
	if err != nil {
		return err
	}

	err = store.RegisterColumns([]string{StatsColumn})
	if err != nil {
		return err
	}

	svc.session.SetStats(NewStats(store))

	return nil
}

func (svc *Service) initJournal() error {

	viper.SetDefault("journal.enabled", false)
	if !viper.GetBool("journal.enabled") {
		return nil
	}

	viper.SetDefault("journal.driver", DefaultJournalDriver)
	viper.SetDefault("journal.path", "./lispy.db")
	viper.SetDefault("journal.host", "127.0.0.1")
	viper.SetDefault("journal.port", 5432)
	viper.SetDefault("journal.param", "sslmode=disable")
	viper.SetDefault("journal.table", DefaultJournalTable)
	viper.SetDefault("journal.secretKey", DefaultSecretKey)

	info := &JournalInfo{
		Driver:   viper.GetString("journal.driver"),
		Path:     viper.GetString("journal.path"),
		Host:     viper.GetString("journal.host"),
		Port:     viper.GetInt("journal.port"),
		Username: viper.GetString("journal.username"),
		Password: viper.GetString("journal.password"),
		DBName:   viper.GetString("journal.dbname"),
		Param:    viper.GetString("journal.param"),
		Table:    viper.GetString("journal.table"),
	}

	pwd, err := journalPassword(info.Password, viper.GetString("journal.secretKey"))
	if err != nil {
		return errors.Wrap(err, EncryptedPasswordEnv)
	}

	info.Password = pwd

	journal, err := OpenJournal(info)
	if err != nil {
		return err
	}

	svc.journal = journal
	svc.session.AddRecorder(journal)

	return nil
}

// journalPassword prefers an encrypted password from the environment over the
// configured plaintext one. LISPY_JOURNAL_PASSWORD stays a plain viper override.
func journalPassword(plain string, secretKey string) (string, error) {

	encrypted := os.Getenv(EncryptedPasswordEnv)
	if encrypted == "" {
		return plain, nil
	}

	return AesDecrypt([]byte(secretKey), encrypted)
}

func (svc *Service) initPublisher() {

	connector := svc.app.GetEventConnector()
	if connector == nil {
		return
	}

	viper.SetDefault("gravity.eventName", DefaultEventName)
	viper.SetDefault("gravity.publishRate", DefaultPublishRate)
	viper.SetDefault("gravity.publishBurst", DefaultPublishBurst)
	viper.SetDefault("gravity.publishBatchSize", DefaultBatchSize)

	eventName := viper.GetString("gravity.eventName")
	limiter := NewLimiter(viper.GetFloat64("gravity.publishRate"), viper.GetInt("gravity.publishBurst"))

	log.WithFields(log.Fields{
		"event":       eventName,
		"client_name": svc.clientName,
		"rate":        limiter.Limit(),
		"batch_size":  viper.GetInt("gravity.publishBatchSize"),
	}).Info("Publishing evaluation events")

	svc.publisher = NewEventPublisher(connector, eventName, svc.clientName, limiter, viper.GetInt("gravity.publishBatchSize"))
	svc.session.AddRecorder(svc.publisher)
}

func (svc *Service) Uninit() {

	if svc.publisher != nil {
		failed, err := svc.publisher.Flush(AckTimeout)
		if err != nil {
			log.Error(err)
		} else if failed > 0 {
			log.WithFields(log.Fields{
				"failed": failed,
			}).Warn("Some evaluation events were not acknowledged")
		}
	}

	if svc.journal != nil {
		err := svc.journal.Close()
		if err != nil {
			log.Error(err)
		}
	}

	if svc.storeMgr != nil {
		svc.storeMgr.Close()
	}
}

// RunInteractive starts the read-eval-print loop on the terminal.
func (svc *Service) RunInteractive(ctx context.Context, out io.Writer) error {

	viper.SetDefault("repl.prompt", DefaultPrompt)
	viper.SetDefault("repl.banner", DefaultBanner)
	viper.SetDefault("repl.historyFile", "")
	viper.SetDefault("repl.historyLimit", DefaultHistoryLimit)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          viper.GetString("repl.prompt"),
		HistoryFile:     viper.GetString("repl.historyFile"),
		HistoryLimit:    viper.GetInt("repl.historyLimit"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          out,
	})
	if err != nil {
		return err
	}

	// Closing the instance wakes up a pending Readline and restores the terminal
	var closeOnce sync.Once
	closeReader := func() {
		closeOnce.Do(func() {
			rl.Close()
		})
	}
	defer closeReader()

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}

		closeReader()
	}()

	fmt.Fprintln(out, viper.GetString("repl.banner"))

	return svc.session.Run(ctx, rl, out)
}

// RunBatch evaluates a file, or stdin when path is "-".
func (svc *Service) RunBatch(path string, out io.Writer) error {

	viper.SetDefault("batch.workers", DefaultBatchWorkers)

	var input io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		input = file
	}

	start := time.Now()
	err := svc.session.RunBatch(input, out, viper.GetInt("batch.workers"))
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"path":    path,
		"elapsed": time.Since(start),
	}).Info("Batch evaluation finished")

	return nil
}
