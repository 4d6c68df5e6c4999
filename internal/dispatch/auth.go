package dispatch

import "github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"

// Authenticate 明文比对凭据；凭据指向的警员已不存在时视为失败
func Authenticate(s *model.AppState, username, password string) (model.Officer, bool) {
	if username == "" {
		return model.Officer{}, false
	}
	for _, c := range s.Credentials {
		if c.Username != username || c.Password != password {
			continue
		}
		if o, ok := s.FindOfficer(c.OfficerID); ok {
			return o, true
		}
	}
	return model.Officer{}, false
}

// AddCredential 为警员创建登录凭据；用户名全局唯一
func AddCredential(s *model.AppState, env Env, officerID, username, password string) (*model.AppState, error) {
	if username == "" || password == "" {
		return s, ErrInvalidCredential
	}
	if s.OfficerIndex(officerID) < 0 {
		return s, ErrOfficerNotFound
	}
	for _, c := range s.Credentials {
		if c.Username == username {
			return s, ErrUsernameTaken
		}
	}
	out := s.Clone()
	out.Credentials = append(out.Credentials, model.Credential{
		ID:        env.id(),
		OfficerID: officerID,
		Username:  username,
		Password:  password,
		CreatedAt: env.Now,
	})
	return out, nil
}
