package lookup

import "github.com/feral-file/ff-streaks/internal/domain"

const documentation = `# Streaks Lookup Service

Answers questions about streak outputs admitted to ` + "`tm_streaks`" + `.
Every answer is an output list of ` + "`{txid, outputIndex}`" + ` references.

| Query | Body |
|-------|------|
| ` + "`findAll`" + ` | ` + "`true`" + ` |
| ` + "`findByCreator`" + ` | ` + "`{creatorIdentityKey, namespace?}`" + ` |
| ` + "`findTop`" + ` | ` + "`{namespace?, limit?}`" + ` (limit defaults to 100, at most 1000) |
| ` + "`findActiveAtAnchor`" + ` | ` + "`{anchorValue, namespace?}`" + ` |
| ` + "`findBrokenSince`" + ` | ` + "`{referenceAnchor, namespace?}`" + ` |

Anchors are UTC day stamps (YYYYMMDD). A streak is broken since a reference
day when its latest tick is older than the reference minus its own cadence.
`

// GetDocumentation returns markdown describing the lookup service
func (s *Service) GetDocumentation() string {
	return documentation
}

// GetMetaData returns the lookup service metadata
func (s *Service) GetMetaData() domain.MetaData {
	return domain.MetaData{
		Name:             "Streaks Lookup Service",
		ShortDescription: "Find streaks by creator, length, activity day or lapse.",
	}
}
