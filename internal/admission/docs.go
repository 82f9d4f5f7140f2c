package admission

import "github.com/feral-file/ff-streaks/internal/domain"

const documentation = `# Streaks Topic Manager

Admits outputs carrying streak tokens into the ` + "`tm_streaks`" + ` topic.

## Locking script

    <"streaks"> OP_DROP OP_RETURN <count> <dayStamp> <creatorIdentityKey> <creatorSignature> <namespace> <cadenceDays>

- ` + "`dayStamp`" + ` is the UTC day as YYYYMMDD.
- ` + "`creatorSignature`" + ` signs the streak intent message with the creator identity key.

## Rules

- Outputs that are not streak tokens are ignored.
- The creator signature is verified for every output.
- A tick that spends a previous streak coin must carry count + 1 and exactly dayStamp + cadenceDays.
- Daily streaks must be stamped with today's UTC day.
- A transaction may carry at most one tick per streak per day.
- Previously admitted coins are always retained.
`

// GetDocumentation returns markdown describing the topic manager
func (p *Policy) GetDocumentation() string {
	return documentation
}

// GetMetaData returns the topic manager metadata
func (p *Policy) GetMetaData() domain.MetaData {
	return domain.MetaData{
		Name:             "Streaks Topic Manager",
		ShortDescription: "Daily and periodic streak tokens with exact cadence ticks.",
	}
}
