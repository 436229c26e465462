package metadata

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/pipeline"
	"solana-snapshot-kit/internal/solana"
	"solana-snapshot-kit/internal/storage"
)

// Stage name for off-chain document failures.
const StageDocument = "document"

// Cache fills a MetadataCacheStore for a hashlist. Mints already stored are
// never fetched again.
type Cache struct {
	store    storage.MetadataCacheStore
	onchain  *OnChainFetcher
	docs     DocumentFetcher
	logger   logrus.FieldLogger
	onCached func()
}

// NewCache creates a cache over store.
func NewCache(store storage.MetadataCacheStore, rpc solana.RPCClient, docs DocumentFetcher, logger logrus.FieldLogger) *Cache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cache{
		store:   store,
		onchain: NewOnChainFetcher(rpc),
		docs:    docs,
		logger:  logger,
	}
}

// OnCacheHit registers a callback invoked for every mint found in the store.
func (c *Cache) OnCacheHit(fn func()) *Cache {
	c.onCached = fn
	return c
}

// RunResult describes a cache fill.
type RunResult struct {
	Summary  *pipeline.Summary
	Cached   int                   // mints already present before the run
	Warnings []pipeline.SkipReason // entries stored without their off-chain document
}

// Run fetches and stores an entry for every mint not yet cached, persisting
// after each one. An RPC failure aborts the run; entries stored so far remain.
func (c *Cache) Run(ctx context.Context, tokens []string, opts pipeline.Options) (*RunResult, error) {
	result := &RunResult{}

	pending := make([]string, 0, len(tokens))
	for _, mint := range tokens {
		ok, err := c.store.Contains(ctx, mint)
		if err != nil {
			return result, errors.Wrap(err, "check metadata cache")
		}
		if ok {
			result.Cached++
			if c.onCached != nil {
				c.onCached()
			}
			continue
		}
		pending = append(pending, mint)
	}
	c.logger.WithFields(logrus.Fields{
		"cached":  result.Cached,
		"pending": len(pending),
	}).Info("metadata cache loaded")

	opts.Progress.SetTotal(len(pending))

	summary, err := pipeline.Run(ctx, pending, opts, c.fetch,
		func(ctx context.Context, r pipeline.Result[*fetched]) error {
			if r.Skipped() {
				c.logger.WithFields(logrus.Fields{"token": r.Token, "stage": r.Skip.Stage}).
					WithError(r.Skip.Err).Warn("skipping token")
				return nil
			}
			if r.Value.docErr != nil {
				result.Warnings = append(result.Warnings, pipeline.SkipReason{
					Token: r.Token,
					Stage: StageDocument,
					Err:   r.Value.docErr,
				})
				c.logger.WithField("token", r.Token).WithError(r.Value.docErr).
					Warn("off-chain metadata unavailable, storing null")
			}
			if err := c.store.Put(ctx, r.Value.entry); err != nil {
				return pipeline.Fatal(errors.Wrapf(err, "store metadata for %s", r.Token))
			}
			return nil
		})
	result.Summary = summary
	return result, err
}

type fetched struct {
	entry  *domain.MetadataEntry
	docErr error
}

func (c *Cache) fetch(ctx context.Context, mint string) (*fetched, error) {
	tokenData, err := c.onchain.Fetch(ctx, mint)
	if err != nil {
		if errors.Is(err, ErrNoMetadata) || errors.Is(err, solana.ErrInvalidAccountData) {
			return nil, pipeline.Skip(pipeline.StageDecode, err)
		}
		return nil, pipeline.Fatal(errors.Wrapf(err, "fetch metadata of %s", mint))
	}

	out := &fetched{entry: &domain.MetadataEntry{
		TokenData: *tokenData,
		Metadata:  json.RawMessage("null"),
		Mint:      mint,
	}}
	if tokenData.URI == "" || c.docs == nil {
		return out, nil
	}

	doc, err := c.docs.FetchDocument(ctx, tokenData.URI)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		out.docErr = err
		return out, nil
	}
	out.entry.Metadata = doc
	return out, nil
}
