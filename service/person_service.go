package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Aashish23092/aadhaar-autofill/dto"
	"github.com/Aashish23092/aadhaar-autofill/repository"
	"github.com/Aashish23092/aadhaar-autofill/utils"
)

// PersonService registers members/nominees submitted by the frontend.
type PersonService struct {
	persons repository.PersonRepository
	log     zerolog.Logger
}

func NewPersonService(persons repository.PersonRepository, log zerolog.Logger) *PersonService {
	return &PersonService{persons: persons, log: log}
}

// SubmitPerson stores the person under the canonical Aadhaar number. For an
// existing row only the fields present in req are updated.
func (s *PersonService) SubmitPerson(ctx context.Context, req *dto.PersonSubmitRequest) (*dto.Person, error) {
	req.AadhaarNumber = utils.NormalizeAadhaar(req.AadhaarNumber)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	person, err := s.persons.Upsert(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("person_id", person.ID).Str("aadhaar_last4", last4(person.AadhaarNumber)).Msg("person saved")
	return person, nil
}

// GetPerson looks a person up by Aadhaar number in any grouping.
func (s *PersonService) GetPerson(ctx context.Context, aadhaar string) (*dto.Person, error) {
	return s.persons.GetByAadhaar(ctx, utils.NormalizeAadhaar(aadhaar))
}
