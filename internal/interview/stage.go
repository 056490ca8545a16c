// Package interview implements the screening conversation: a stage machine
// that collects candidate details turn by turn, delegates language
// understanding to a text-generation capability, scores each utterance with
// the sentiment package, and checkpoints the record into the candidate store.
package interview

// Stage is a phase of the interview. The set is closed; dispatch over it is
// an exhaustive switch so adding a stage is a compile-visible change.
type Stage int

const (
	StageGreeting Stage = iota
	StageCollectingInfo
	StageTechStack
	StageTechnicalQuestions
	StageCompletion
)

func (s Stage) String() string {
	switch s {
	case StageGreeting:
		return "greeting"
	case StageCollectingInfo:
		return "collecting_info"
	case StageTechStack:
		return "tech_stack"
	case StageTechnicalQuestions:
		return "technical_questions"
	case StageCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// InfoStep is the sub-state of StageCollectingInfo. Steps advance strictly
// in declaration order, one field per step.
type InfoStep int

const (
	StepName InfoStep = iota
	StepEmail
	StepPhone
	StepExperience
	StepPosition
	StepLocation
)

func (s InfoStep) String() string {
	switch s {
	case StepName:
		return "name"
	case StepEmail:
		return "email"
	case StepPhone:
		return "phone"
	case StepExperience:
		return "experience"
	case StepPosition:
		return "position"
	case StepLocation:
		return "location"
	default:
		return "unknown"
	}
}
