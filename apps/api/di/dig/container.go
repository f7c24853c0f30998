package dig_container

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/formacion/apps/api/echo"
	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/deal"
	"github.com/trezcool/formacion/core/roster"
	"github.com/trezcool/formacion/core/student"
	emailsvc "github.com/trezcool/formacion/services/email"
	logsvc "github.com/trezcool/formacion/services/logger"
	notifysvc "github.com/trezcool/formacion/services/notify"
	"github.com/trezcool/formacion/storage/database"
	inmemdb "github.com/trezcool/formacion/storage/database/inmem"
	boiledrepos "github.com/trezcool/formacion/storage/database/sqlboiler"
	sqlxrepos "github.com/trezcool/formacion/storage/database/sqlx"
)

const engineInMem = "inmem"

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	repositories struct {
		dig.Out
		Deals    deal.Repository
		Students student.Repository
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	return logger
}

// newDB returns nil for the in-memory engine.
func newDB(conf *core.Config, loggerParam DBLoggerParam) *sql.DB {
	if conf.Database.Engine == engineInMem {
		return nil
	}

	setUp := func() (*sql.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newRepositories(conf *core.Config, db *sql.DB) repositories {
	if conf.Database.Engine == engineInMem {
		mem := inmemdb.Open()
		return repositories{
			Deals:    inmemdb.NewDealRepository(mem),
			Students: inmemdb.NewStudentRepository(mem),
		}
	}
	return repositories{
		Deals:    sqlxrepos.NewDealRepository(db),
		Students: boiledrepos.NewStudentRepository(db),
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(log.New(os.Stdout, "EMAIL : ", log.LstdFlags), conf)
	}
	return emailsvc.NewSendgridService(logger, conf)
}

func newNotifier(conf *core.Config, logger core.Logger, mailSvc core.EmailService) core.Notifier {
	return notifysvc.Multi(
		notifysvc.NewLogNotifier(logger),
		notifysvc.NewEmailNotifier(mailSvc, core.ParseAddresses(conf.NotifyEmails)),
	)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	return validate
}

func newSyncer(students student.Service, memo *roster.SignatureMemo, notifier core.Notifier, logger core.Logger) *roster.Syncer {
	return roster.NewSyncer(students, memo, notifier, logger)
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
	dealSvc deal.Service,
	studentSvc student.Service,
	rosterSvc roster.Service,
) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		DealSvc:    dealSvc,
		StudentSvc: studentSvc,
		RosterSvc:  rosterSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(newNotifier))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(deal.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(roster.NewSignatureMemo))
	must(c.Provide(newSyncer))
	must(c.Provide(roster.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
