package main

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/checkoutbooks"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/registermember"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/renewloan"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/returnbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/settlelatefee"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/updatesettings"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/borrowingeligibility"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/loandetail"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/memberloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/overdueloans"
	"github.com/AntonStoeckl/library-circulation-go/library/httpapi"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/config"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/observable"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/settingscache"
)

//nolint:funlen
func newHandlers(
	store postgresstore.Store,
	settings shell.ProvidesSettings,
	cache *settingscache.Cache,
	retry config.RetryConfig,
	obs observability,
) (httpapi.Handlers, error) {
	var (
		handlers httpapi.Handlers
		err      error
	)

	handlers.Settings = settings

	if handlers.CheckoutBooks, err = observeCommand[checkoutbooks.Command](
		checkoutbooks.NewCommandHandler(store, settings,
			checkoutbooks.WithRetryOptions(retryOptions(retry, obs, checkoutbooks.Command{}.CommandType())...)),
		obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.ReturnBook, err = observeCommand[returnbook.Command](
		returnbook.NewCommandHandler(store, settings,
			returnbook.WithRetryOptions(retryOptions(retry, obs, returnbook.Command{}.CommandType())...)),
		obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.RenewLoan, err = observeCommand[renewloan.Command](
		renewloan.NewCommandHandler(store, settings,
			renewloan.WithRetryOptions(retryOptions(retry, obs, renewloan.Command{}.CommandType())...)),
		obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.SettleLateFee, err = observeCommand[settlelatefee.Command](
		settlelatefee.NewCommandHandler(store,
			settlelatefee.WithRetryOptions(retryOptions(retry, obs, settlelatefee.Command{}.CommandType())...)),
		obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.AddBook, err = observeCommand[addbook.Command](
		addbook.NewCommandHandler(store,
			addbook.WithRetryOptions(retryOptions(retry, obs, addbook.Command{}.CommandType())...)),
		obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.RegisterMember, err = observeCommand[registermember.Command](
		registermember.NewCommandHandler(store,
			registermember.WithRetryOptions(retryOptions(retry, obs, registermember.Command{}.CommandType())...)),
		obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	settingsOptions := []updatesettings.Option{
		updatesettings.WithRetryOptions(retryOptions(retry, obs, updatesettings.Command{}.CommandType())...),
		updatesettings.WithLogger(obs.loggers.Logger),
	}
	if cache != nil {
		settingsOptions = append(settingsOptions, updatesettings.WithCacheInvalidation(cache))
	}

	if handlers.UpdateSettings, err = observeCommand[updatesettings.Command](
		updatesettings.NewCommandHandler(store, settingsOptions...),
		obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.LoanDetail, err = observeQuery[loandetail.Query, loandetail.LoanDetail](
		loandetail.NewQueryHandler(store, settings), obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.CurrentLoanDetail, err = observeQuery[loandetail.Query, loandetail.LoanDetail](
		loandetail.NewQueryHandler(store, settings, loandetail.WithStrongConsistency()), obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.MemberLoans, err = observeQuery[memberloans.Query, memberloans.MemberLoans](
		memberloans.NewQueryHandler(store, settings), obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.OverdueLoans, err = observeQuery[overdueloans.Query, overdueloans.OverdueLoans](
		overdueloans.NewQueryHandler(store, settings), obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	if handlers.BorrowingEligibility, err = observeQuery[borrowingeligibility.Query, borrowingeligibility.Eligibility](
		borrowingeligibility.NewQueryHandler(store, settings), obs,
	); err != nil {
		return httpapi.Handlers{}, err
	}

	return handlers, nil
}

func retryOptions(cfg config.RetryConfig, obs observability, commandType string) []shell.RetryOption {
	options := []shell.RetryOption{
		shell.WithMaxAttempts(cfg.MaxAttempts),
		shell.WithBaseDelay(cfg.BaseDelay),
		shell.WithJitterFactor(cfg.JitterFactor),
	}

	if obs.metricsCollector != nil {
		options = append(options, shell.WithMetrics(obs.metricsCollector, commandType))
	}

	return options
}

func observeCommand[C shell.Command](
	handler shell.CoreCommandHandler[C],
	obs observability,
) (shell.CoreCommandHandler[C], error) {
	options := []observable.CommandOption[C]{
		observable.WithCommandLogging[C](obs.loggers.Logger),
		observable.WithCommandContextualLogging[C](obs.loggers.ContextualLogger),
	}

	if obs.metricsCollector != nil {
		options = append(options, observable.WithCommandMetrics[C](obs.metricsCollector))
	}

	if obs.tracingCollector != nil {
		options = append(options, observable.WithCommandTracing[C](obs.tracingCollector))
	}

	wrapped, err := observable.NewCommandWrapper(handler, options...)
	if err != nil {
		return nil, err
	}

	return wrapped, nil
}

func observeQuery[Q shell.Query, R any](
	handler shell.CoreQueryHandler[Q, R],
	obs observability,
) (shell.CoreQueryHandler[Q, R], error) {
	options := []observable.QueryOption[Q, R]{
		observable.WithQueryLogging[Q, R](obs.loggers.Logger),
		observable.WithQueryContextualLogging[Q, R](obs.loggers.ContextualLogger),
	}

	if obs.metricsCollector != nil {
		options = append(options, observable.WithQueryMetrics[Q, R](obs.metricsCollector))
	}

	if obs.tracingCollector != nil {
		options = append(options, observable.WithQueryTracing[Q, R](obs.tracingCollector))
	}

	wrapped, err := observable.NewQueryWrapper(handler, options...)
	if err != nil {
		return nil, err
	}

	return wrapped, nil
}
