package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/repositories"
)

// fakeRepository is an in-memory Repository for service tests. Getters hand
// out shallow copies with user rows attached, mirroring what the gorm
// repositories preload.
type fakeRepository struct {
	users *fakeUserRepo
	chans *fakeChannelRepo
	asmts *fakeAssessmentRepo
	asgns *fakeAssignmentRepo
	rslts *fakeResultRepo
	dists *fakeDistributionRepo
	files *fakeFileRepo
}

func newFakeRepository() *fakeRepository {
	users := &fakeUserRepo{byID: map[string]*models.User{}}
	return &fakeRepository{
		users: users,
		chans: &fakeChannelRepo{users: users},
		asmts: &fakeAssessmentRepo{},
		asgns: &fakeAssignmentRepo{},
		rslts: &fakeResultRepo{},
		dists: &fakeDistributionRepo{},
		files: &fakeFileRepo{},
	}
}

func (r *fakeRepository) User() repositories.UserRepository { return r.users }
func (r *fakeRepository) Channel() repositories.ChannelRepository { return r.chans }
func (r *fakeRepository) Assessment() repositories.AssessmentRepository { return r.asmts }
func (r *fakeRepository) Assignment() repositories.AssignmentRepository { return r.asgns }
func (r *fakeRepository) Result() repositories.ResultRepository { return r.rslts }
func (r *fakeRepository) Distribution() repositories.DistributionRepository { return r.dists }
func (r *fakeRepository) File() repositories.FileRepository { return r.files }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

// seedUser registers a user so roster listings can resolve emails.
func (r *fakeRepository) seedUser(id, name, email string) *models.User {
	u := &models.User{ID: id, Name: name, Email: email, Status: models.PresenceOffline}
	r.users.byID[id] = u
	return u
}

// ===== USERS =====

type fakeUserRepo struct {
	byID map[string]*models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, emails []string) ([]*models.User, error) {
	var out []*models.User
	for _, email := range emails {
		if u, err := f.GetByEmail(ctx, email); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePresence(ctx context.Context, id string, status models.PresenceStatus, at time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Status = status
	u.LastActivityAt = &at
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

// ===== CHANNELS =====

type fakeChannelRepo struct {
	users *fakeUserRepo

	channels       []*models.Channel
	members        []*models.ChannelMember
	subchannels    []*models.Subchannel
	subMembers     []*models.SubchannelMember
	messages       []*models.Message
	nextChannelID  uint
	nextMemberID   uint
	nextSubID      uint
	nextSubMemID   uint
	nextMessageID  uint
	deletedChannel map[uint]bool
}

func (f *fakeChannelRepo) attachUser(userID string) models.User {
	if u, ok := f.users.byID[userID]; ok {
		return *u
	}
	return models.User{ID: userID}
}

func (f *fakeChannelRepo) Create(ctx context.Context, channel *models.Channel) error {
	f.nextChannelID++
	channel.ID = f.nextChannelID
	channel.CreatedAt = time.Now()
	f.channels = append(f.channels, channel)
	return nil
}

func (f *fakeChannelRepo) GetByID(ctx context.Context, id uint) (*models.Channel, error) {
	for _, c := range f.channels {
		if c.ID == id && !f.deleted(id) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChannelRepo) deleted(id uint) bool {
	return f.deletedChannel != nil && f.deletedChannel[id]
}

func (f *fakeChannelRepo) GetByIDWithDetails(ctx context.Context, id uint) (*models.Channel, error) {
	channel, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := *channel
	out.Members = nil
	out.Subchannels = nil
	for _, m := range f.members {
		if m.ChannelID == id {
			mm := *m
			mm.User = f.attachUser(m.UserID)
			out.Members = append(out.Members, mm)
		}
	}
	for _, s := range f.subchannels {
		if s.ChannelID == id {
			out.Subchannels = append(out.Subchannels, *s)
		}
	}
	return &out, nil
}

func (f *fakeChannelRepo) GetByInviteCode(ctx context.Context, code string) (*models.Channel, error) {
	for _, c := range f.channels {
		if c.InviteCode == code && !f.deleted(c.ID) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChannelRepo) GetJoined(ctx context.Context, userID string) ([]*models.Channel, error) {
	var out []*models.Channel
	for _, m := range f.members {
		if m.UserID != userID {
			continue
		}
		if c, err := f.GetByID(ctx, m.ChannelID); err == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) Delete(ctx context.Context, id uint) error {
	if f.deletedChannel == nil {
		f.deletedChannel = map[uint]bool{}
	}
	f.deletedChannel[id] = true
	return nil
}

func (f *fakeChannelRepo) Stats(ctx context.Context, id uint) (*repositories.ChannelStats, error) {
	stats := &repositories.ChannelStats{}
	for _, m := range f.members {
		if m.ChannelID == id {
			stats.MemberCount++
		}
	}
	for _, s := range f.subchannels {
		if s.ChannelID == id {
			stats.SubchannelCount++
		}
	}
	for _, m := range f.messages {
		if m.ChannelID == id {
			stats.MessageCount++
		}
	}
	return stats, nil
}

func (f *fakeChannelRepo) AddMember(ctx context.Context, member *models.ChannelMember) (bool, error) {
	for _, m := range f.members {
		if m.ChannelID == member.ChannelID && m.UserID == member.UserID {
			return false, nil
		}
	}
	f.nextMemberID++
	member.ID = f.nextMemberID
	member.JoinedAt = time.Now()
	f.members = append(f.members, member)
	return true, nil
}

func (f *fakeChannelRepo) GetMember(ctx context.Context, channelID uint, userID string) (*models.ChannelMember, error) {
	for _, m := range f.members {
		if m.ChannelID == channelID && m.UserID == userID {
			out := *m
			out.User = f.attachUser(m.UserID)
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChannelRepo) FindMember(ctx context.Context, channelID uint, ref string) (*models.ChannelMember, error) {
	var rowID uint
	if _, err := fmt.Sscanf(ref, "%d", &rowID); err == nil {
		for _, m := range f.members {
			if m.ChannelID == channelID && m.ID == rowID {
				out := *m
				out.User = f.attachUser(m.UserID)
				return &out, nil
			}
		}
	}
	return f.GetMember(ctx, channelID, ref)
}

func (f *fakeChannelRepo) ListMembers(ctx context.Context, channelID uint) ([]*models.ChannelMember, error) {
	var out []*models.ChannelMember
	for _, m := range f.members {
		if m.ChannelID == channelID {
			mm := *m
			mm.User = f.attachUser(m.UserID)
			out = append(out, &mm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeChannelRepo) UpdateMemberRole(ctx context.Context, memberID uint, role models.ChannelRole) error {
	for _, m := range f.members {
		if m.ID == memberID {
			m.Role = role
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeChannelRepo) RemoveMember(ctx context.Context, memberID uint) error {
	for i, m := range f.members {
		if m.ID == memberID {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeChannelRepo) ReplaceMembers(ctx context.Context, channelID uint, members []models.Membership) error {
	var kept []*models.ChannelMember
	for _, m := range f.members {
		if m.ChannelID != channelID {
			kept = append(kept, m)
		}
	}
	f.members = kept
	for _, m := range members {
		f.nextMemberID++
		f.members = append(f.members, &models.ChannelMember{
			ID:        f.nextMemberID,
			ChannelID: channelID,
			UserID:    m.UserID,
			Role:      m.Role,
			JoinedAt:  time.Now(),
		})
	}
	return nil
}

func (f *fakeChannelRepo) CreateSubchannel(ctx context.Context, subchannel *models.Subchannel, seed []models.Membership) error {
	f.nextSubID++
	subchannel.ID = f.nextSubID
	subchannel.CreatedAt = time.Now()
	f.subchannels = append(f.subchannels, subchannel)
	for _, m := range seed {
		f.nextSubMemID++
		f.subMembers = append(f.subMembers, &models.SubchannelMember{
			ID:           f.nextSubMemID,
			SubchannelID: subchannel.ID,
			UserID:       m.UserID,
			Role:         m.Role,
			JoinedAt:     time.Now(),
		})
	}
	return nil
}

func (f *fakeChannelRepo) GetSubchannel(ctx context.Context, id uint) (*models.Subchannel, error) {
	for _, s := range f.subchannels {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChannelRepo) ListSubchannels(ctx context.Context, channelID uint) ([]*models.Subchannel, error) {
	var out []*models.Subchannel
	for _, s := range f.subchannels {
		if s.ChannelID == channelID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) DeleteSubchannel(ctx context.Context, id uint) error {
	for i, s := range f.subchannels {
		if s.ID == id {
			f.subchannels = append(f.subchannels[:i], f.subchannels[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeChannelRepo) AddSubchannelMember(ctx context.Context, member *models.SubchannelMember) (bool, error) {
	for _, m := range f.subMembers {
		if m.SubchannelID == member.SubchannelID && m.UserID == member.UserID {
			return false, nil
		}
	}
	f.nextSubMemID++
	member.ID = f.nextSubMemID
	member.JoinedAt = time.Now()
	f.subMembers = append(f.subMembers, member)
	return true, nil
}

func (f *fakeChannelRepo) GetJoinedSubchannelIDs(ctx context.Context, userID string) ([]uint, error) {
	var out []uint
	for _, m := range f.subMembers {
		if m.UserID == userID {
			out = append(out, m.SubchannelID)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) GetSubchannelMember(ctx context.Context, subchannelID uint, userID string) (*models.SubchannelMember, error) {
	for _, m := range f.subMembers {
		if m.SubchannelID == subchannelID && m.UserID == userID {
			out := *m
			out.User = f.attachUser(m.UserID)
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChannelRepo) ListSubchannelMembers(ctx context.Context, subchannelID uint) ([]*models.SubchannelMember, error) {
	var out []*models.SubchannelMember
	for _, m := range f.subMembers {
		if m.SubchannelID == subchannelID {
			mm := *m
			mm.User = f.attachUser(m.UserID)
			out = append(out, &mm)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) CreateMessage(ctx context.Context, message *models.Message) error {
	f.nextMessageID++
	message.ID = f.nextMessageID
	message.SentAt = time.Now()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeChannelRepo) ListMessages(ctx context.Context, channelID uint, subchannelID *uint, limit int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if m.ChannelID != channelID {
			continue
		}
		if (m.SubchannelID == nil) != (subchannelID == nil) {
			continue
		}
		if subchannelID != nil && *m.SubchannelID != *subchannelID {
			continue
		}
		out = append(out, m)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// ===== ASSESSMENTS =====

type fakeAssessmentRepo struct {
	assessments []*models.Assessment
	nextID      uint
	nextQID     uint
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, assessment *models.Assessment) error {
	f.nextID++
	assessment.ID = f.nextID
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now()
	}
	for i := range assessment.Questions {
		f.nextQID++
		assessment.Questions[i].ID = f.nextQID
		assessment.Questions[i].AssessmentID = assessment.ID
	}
	f.assessments = append(f.assessments, assessment)
	return nil
}

func (f *fakeAssessmentRepo) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	for _, a := range f.assessments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssessmentRepo) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Assessment, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeAssessmentRepo) GetByCreator(ctx context.Context, email string, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	filters.CreatorEmail = &email
	return f.List(ctx, filters)
}

func (f *fakeAssessmentRepo) List(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	var out []*models.Assessment
	for _, a := range f.assessments {
		if filters.Kind != nil && a.Kind != *filters.Kind {
			continue
		}
		if filters.CreatorEmail != nil && !strings.EqualFold(a.CreatorEmail, *filters.CreatorEmail) {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAssessmentRepo) Delete(ctx context.Context, id uint) error {
	for i, a := range f.assessments {
		if a.ID == id {
			f.assessments = append(f.assessments[:i], f.assessments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeAssessmentRepo) TitlesByID(ctx context.Context, ids []uint) (map[uint]string, error) {
	titles := make(map[uint]string, len(ids))
	for _, id := range ids {
		if a, err := f.GetByID(ctx, id); err == nil {
			titles[id] = a.Title
		}
	}
	return titles, nil
}

// ===== ASSIGNMENTS =====

type fakeAssignmentRepo struct {
	assignments []*models.EvaluationAssignment
	nextID      uint
}

func (f *fakeAssignmentRepo) CreateBatch(ctx context.Context, assignments []*models.EvaluationAssignment) error {
	for _, a := range assignments {
		f.nextID++
		a.ID = f.nextID
		f.assignments = append(f.assignments, a)
	}
	return nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (*models.EvaluationAssignment, error) {
	for _, a := range f.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, assignment *models.EvaluationAssignment) error {
	for i, a := range f.assignments {
		if a.ID == assignment.ID {
			f.assignments[i] = assignment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) ListByUser(ctx context.Context, email string, filters repositories.AssignmentFilters) ([]*models.EvaluationAssignment, int64, error) {
	var out []*models.EvaluationAssignment
	for _, a := range f.assignments {
		if a.UserEmail != email {
			continue
		}
		if !filters.IncludeHidden && a.Hidden {
			continue
		}
		if filters.Category != nil && a.Category != *filters.Category {
			continue
		}
		if filters.Status != nil && a.Status != *filters.Status {
			continue
		}
		if filters.ChannelID != nil && a.ChannelID != *filters.ChannelID {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAssignmentRepo) ListByAssessment(ctx context.Context, assessmentID uint, channelID uint) ([]*models.EvaluationAssignment, error) {
	var out []*models.EvaluationAssignment
	for _, a := range f.assignments {
		if a.AssessmentID == assessmentID && a.ChannelID == channelID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) StatsByAssessment(ctx context.Context, assessmentID uint, channelID uint) (*repositories.AssignmentStats, error) {
	stats := &repositories.AssignmentStats{}
	for _, a := range f.assignments {
		if a.AssessmentID != assessmentID || a.ChannelID != channelID {
			continue
		}
		stats.Total++
		switch a.Status {
		case models.AssignmentPending:
			stats.Pending++
		case models.AssignmentStarted:
			stats.Started++
		case models.AssignmentCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

// ===== RESULTS =====

type fakeResultRepo struct {
	results      []*models.AssessmentResult
	nextID       uint
	nextAnswerID uint
}

func (f *fakeResultRepo) Create(ctx context.Context, result *models.AssessmentResult) error {
	f.nextID++
	result.ID = f.nextID
	for i := range result.Answers {
		f.nextAnswerID++
		result.Answers[i].ID = f.nextAnswerID
		result.Answers[i].ResultID = result.ID
	}
	f.results = append(f.results, result)
	return nil
}

func (f *fakeResultRepo) GetByID(ctx context.Context, id uint) (*models.AssessmentResult, error) {
	for _, r := range f.results {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResultRepo) GetByIDWithAnswers(ctx context.Context, id uint) (*models.AssessmentResult, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeResultRepo) Update(ctx context.Context, result *models.AssessmentResult) error {
	for i, r := range f.results {
		if r.ID == result.ID {
			f.results[i] = result
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeResultRepo) UpdateAnswers(ctx context.Context, resultID uint, answers []models.ResultAnswer) error {
	result, err := f.GetByID(ctx, resultID)
	if err != nil {
		return err
	}
	for _, updated := range answers {
		for i := range result.Answers {
			if result.Answers[i].ID == updated.ID {
				result.Answers[i].Points = updated.Points
				result.Answers[i].Feedback = updated.Feedback
				result.Answers[i].Status = updated.Status
			}
		}
	}
	return nil
}

func (f *fakeResultRepo) ListByUser(ctx context.Context, email string, limit, offset int) ([]*models.AssessmentResult, int64, error) {
	var out []*models.AssessmentResult
	for _, r := range f.results {
		if r.UserEmail == email {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

// ===== DISTRIBUTIONS =====

type fakeDistributionRepo struct {
	distributions []*models.Distribution
	nextID        uint
}

func (f *fakeDistributionRepo) Create(ctx context.Context, distribution *models.Distribution) error {
	f.nextID++
	distribution.ID = f.nextID
	f.distributions = append(f.distributions, distribution)
	return nil
}

func (f *fakeDistributionRepo) GetByID(ctx context.Context, id uint) (*models.Distribution, error) {
	for _, d := range f.distributions {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDistributionRepo) ListForRooms(ctx context.Context, channelIDs []uint, subchannelIDs []uint) ([]*models.Distribution, error) {
	inChannels := make(map[uint]struct{}, len(channelIDs))
	for _, id := range channelIDs {
		inChannels[id] = struct{}{}
	}
	inSubs := make(map[uint]struct{}, len(subchannelIDs))
	for _, id := range subchannelIDs {
		inSubs[id] = struct{}{}
	}

	var out []*models.Distribution
	for _, d := range f.distributions {
		if !d.Active {
			continue
		}
		if d.SubchannelID == nil {
			if _, ok := inChannels[d.ChannelID]; ok {
				out = append(out, d)
			}
		} else if _, ok := inSubs[*d.SubchannelID]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDistributionRepo) Deactivate(ctx context.Context, id uint) error {
	d, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d.Active = false
	return nil
}

// ===== FILES =====

type fakeFileRepo struct {
	files         []*models.ChannelFile
	bookmarks     map[string]bool
	comments      []*models.FileComment
	replies       []*models.CommentReply
	nextFileID    uint
	nextCommentID uint
	nextReplyID   uint
}

func (f *fakeFileRepo) Create(ctx context.Context, file *models.ChannelFile) error {
	f.nextFileID++
	file.ID = f.nextFileID
	file.CreatedAt = time.Now()
	f.files = append(f.files, file)
	return nil
}

func (f *fakeFileRepo) GetByID(ctx context.Context, id uint) (*models.ChannelFile, error) {
	for _, file := range f.files {
		if file.ID == id {
			return file, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFileRepo) GetByIDWithDetails(ctx context.Context, id uint) (*models.ChannelFile, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeFileRepo) ListByRoom(ctx context.Context, channelID uint, subchannelID *uint) ([]*models.ChannelFile, error) {
	var out []*models.ChannelFile
	for _, file := range f.files {
		if file.ChannelID != channelID {
			continue
		}
		if (file.SubchannelID == nil) != (subchannelID == nil) {
			continue
		}
		if subchannelID != nil && *file.SubchannelID != *subchannelID {
			continue
		}
		out = append(out, file)
	}
	return out, nil
}

func (f *fakeFileRepo) Delete(ctx context.Context, id uint) error {
	for i, file := range f.files {
		if file.ID == id {
			f.files = append(f.files[:i], f.files[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeFileRepo) ToggleBookmark(ctx context.Context, fileID uint, userID string) (bool, error) {
	if f.bookmarks == nil {
		f.bookmarks = map[string]bool{}
	}
	key := fmt.Sprintf("%d:%s", fileID, userID)
	f.bookmarks[key] = !f.bookmarks[key]
	return f.bookmarks[key], nil
}

func (f *fakeFileRepo) AddComment(ctx context.Context, comment *models.FileComment) error {
	f.nextCommentID++
	comment.ID = f.nextCommentID
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, comment)
	return nil
}

func (f *fakeFileRepo) GetComment(ctx context.Context, id uint) (*models.FileComment, error) {
	for _, c := range f.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFileRepo) AddReply(ctx context.Context, reply *models.CommentReply) error {
	f.nextReplyID++
	reply.ID = f.nextReplyID
	reply.CreatedAt = time.Now()
	f.replies = append(f.replies, reply)
	return nil
}
