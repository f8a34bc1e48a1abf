package usecase

import (
	"context"
	"fmt"
)

// FundamentalsUsecase は株式のファンダメンタルズを取得し、fundamentals に永続化するユースケースです。
type FundamentalsUsecase struct {
	provider    FundamentalsProvider
	tx          Transactor
	invalidator Invalidator
}

// NewFundamentalsUsecase は新しい FundamentalsUsecase を作成します。invalidator は nil でも構いません。
func NewFundamentalsUsecase(provider FundamentalsProvider, tx Transactor, invalidator Invalidator) *FundamentalsUsecase {
	return &FundamentalsUsecase{provider: provider, tx: tx, invalidator: invalidator}
}

func (fu *FundamentalsUsecase) ingestOne(ctx context.Context, store Store, symbol string) error {
	f, err := fu.provider.FetchFundamentals(ctx, symbol)
	if err != nil {
		return err
	}

	name := f.Name
	if name == "" {
		name = symbol
	}
	if _, err := store.EnsureCompany(ctx, symbol, name); err != nil {
		return fmt.Errorf("ensure company: %w", err)
	}
	if err := store.UpsertFundamentals(ctx, symbol, f); err != nil {
		return fmt.Errorf("upsert fundamentals: %w", err)
	}
	return nil
}

// IngestAll は IngestUsecase.IngestAll と同じ契約で、指定された銘柄のファンダメンタルズを取り込みます。
func (fu *FundamentalsUsecase) IngestAll(ctx context.Context, symbols []string) (Report, error) {
	return runBatch(ctx, fu.tx, fu.invalidator, symbols, fu.ingestOne)
}
